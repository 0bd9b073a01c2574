package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/opaline/storefront/internal/models"
)

// MySQLStore implements Store on top of *sql.DB.
type MySQLStore struct {
	db *sql.DB
}

var _ Store = (*MySQLStore)(nil)

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

type txKey struct{}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction bound to ctx, or the pool when there is none.
func (s *MySQLStore) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

func (s *MySQLStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		// Already inside a transaction; join it.
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// --- users ---

func (s *MySQLStore) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)",
		u.Username, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	u.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userColumns = "id, username, email, password_hash, role, created_at"

func (s *MySQLStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.scanUser(s.q(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (s *MySQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.q(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username))
}

func (s *MySQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.q(ctx).QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

func (s *MySQLStore) ListAdmins(ctx context.Context) ([]models.User, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE role = ?", models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, u)
	}
	return admins, rows.Err()
}

func (s *MySQLStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.q(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

// --- products ---

const productColumns = "id, name, description, details, price, image, visible, created_at, updated_at"

func (s *MySQLStore) CreateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO products (name, description, details, price, image, visible) VALUES (?, ?, ?, ?, ?, ?)",
		p.Name, p.Description, p.Details, p.Price, p.Image, p.Visible)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Details, &p.Price, &p.Image, &p.Visible, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MySQLStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE products SET name = ?, description = ?, details = ?, price = ?, image = ?, visible = ? WHERE id = ?",
		p.Name, p.Description, p.Details, p.Price, p.Image, p.Visible, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) ListProducts(ctx context.Context, visibleOnly bool) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if visibleOnly {
		query += " WHERE visible = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Details, &p.Price, &p.Image, &p.Visible, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// --- cart ---

func (s *MySQLStore) UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	_, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)",
		userID, productID, quantity)
	return err
}

func (s *MySQLStore) GetCartItem(ctx context.Context, itemID int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT id, user_id, product_id, quantity, created_at, updated_at FROM cart_items WHERE id = ?", itemID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MySQLStore) ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		        p.name, p.price, p.image
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = ?
		 ORDER BY ci.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
			&l.ProductName, &l.ProductPrice, &l.ProductImage); err != nil {
			return nil, err
		}
		l.LineTotal = l.ProductPrice * float64(l.Quantity)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *MySQLStore) SetCartItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE cart_items SET quantity = ? WHERE id = ?", quantity, itemID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteCartItem(ctx context.Context, itemID int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM cart_items WHERE id = ?", itemID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.q(ctx).ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID)
	return err
}

func (s *MySQLStore) CountCartItems(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = ?", userID).Scan(&n)
	return n, err
}

// --- wishlist ---

func (s *MySQLStore) AddWishlistItem(ctx context.Context, userID, productID int64) (bool, error) {
	_, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO wishlist_items (user_id, product_id) VALUES (?, ?)", userID, productID)
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *MySQLStore) GetWishlistItem(ctx context.Context, itemID int64) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT id, user_id, product_id, created_at FROM wishlist_items WHERE id = ?", itemID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MySQLStore) ListWishlistLines(ctx context.Context, userID int64) ([]models.WishlistLine, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT wi.id, wi.user_id, wi.product_id, wi.created_at,
		        p.name, p.price, p.image
		 FROM wishlist_items wi
		 JOIN products p ON p.id = wi.product_id
		 WHERE wi.user_id = ?
		 ORDER BY wi.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.WishlistLine
	for rows.Next() {
		var l models.WishlistLine
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.CreatedAt,
			&l.ProductName, &l.ProductPrice, &l.ProductImage); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *MySQLStore) DeleteWishlistItem(ctx context.Context, itemID int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM wishlist_items WHERE id = ?", itemID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// --- orders ---

const orderColumns = "id, user_id, status, payment_method, payment_status, total_amount, shipping_address, billing_address, created_at, updated_at"

func (s *MySQLStore) CreateOrder(ctx context.Context, o *models.Order) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO orders (user_id, status, payment_method, payment_status, total_amount, shipping_address, billing_address) VALUES (?, ?, ?, ?, ?, ?, ?)",
		o.UserID, o.Status, o.PaymentMethod, o.PaymentStatus, o.TotalAmount, o.ShippingAddress, o.BillingAddress)
	if err != nil {
		return err
	}
	o.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) AddOrderItem(ctx context.Context, item *models.OrderItem) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, quantity, price) VALUES (?, ?, ?, ?)",
		item.OrderID, item.ProductID, item.Quantity, item.Price)
	if err != nil {
		return err
	}
	item.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) scanOrders(rows *sql.Rows) ([]models.Order, error) {
	defer rows.Close()
	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
			&o.TotalAmount, &o.ShippingAddress, &o.BillingAddress, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *MySQLStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id).
		Scan(&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
			&o.TotalAmount, &o.ShippingAddress, &o.BillingAddress, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *MySQLStore) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = ?", orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *MySQLStore) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return s.scanOrders(rows)
}

func (s *MySQLStore) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return s.scanOrders(rows)
}

func (s *MySQLStore) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) SetOrderPaymentOutcome(ctx context.Context, id int64, status, paymentStatus string) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE orders SET status = ?, payment_status = ? WHERE id = ?", status, paymentStatus, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) CancelOverdueOrders(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE status = ? AND payment_status = ? AND created_at < ?",
		models.OrderStatusCancelled, models.OrderStatusPending, models.PaymentStatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *MySQLStore) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := s.q(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&n)
	return n, err
}

func (s *MySQLStore) PaidRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status = ?",
		models.PaymentStatusPaid).Scan(&total)
	return total, err
}

// --- payments ---

const paymentColumns = "id, order_id, user_id, payment_method, payment_intent_id, payment_status, amount, currency, transaction_data, created_at, updated_at"

func (s *MySQLStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO payments (order_id, user_id, payment_method, payment_intent_id, payment_status, amount, currency, transaction_data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.OrderID, p.UserID, p.PaymentMethod, p.PaymentIntentID, p.PaymentStatus, p.Amount, p.Currency, p.TransactionData)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var p models.Payment
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE payment_intent_id = ?", intentID).
		Scan(&p.ID, &p.OrderID, &p.UserID, &p.PaymentMethod, &p.PaymentIntentID,
			&p.PaymentStatus, &p.Amount, &p.Currency, &p.TransactionData, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MySQLStore) SetPaymentStatus(ctx context.Context, id int64, status string) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE payments SET payment_status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) ListPayments(ctx context.Context) ([]models.Payment, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT " + paymentColumns + " FROM payments ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.PaymentMethod, &p.PaymentIntentID,
			&p.PaymentStatus, &p.Amount, &p.Currency, &p.TransactionData, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// --- notifications ---

func (s *MySQLStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO notifications (user_id, message, notification_type, related_id) VALUES (?, ?, ?, ?)",
		n.UserID, n.Message, n.Type, n.RelatedID)
	if err != nil {
		return err
	}
	n.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT id, user_id, message, notification_type, related_id, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *MySQLStore) MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error) {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *MySQLStore) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	_, err := s.q(ctx).ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE", userID)
	return err
}

// --- content ---

func (s *MySQLStore) CreateSubscriber(ctx context.Context, email string) error {
	_, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO subscribers (email) VALUES (?)", email)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MySQLStore) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT id, email, created_at FROM subscribers ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *MySQLStore) DeleteSubscriber(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM subscribers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) CountSubscribers(ctx context.Context) (int64, error) {
	var n int64
	err := s.q(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM subscribers").Scan(&n)
	return n, err
}

func (s *MySQLStore) CreateMessage(ctx context.Context, m *models.Message) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO messages (name, email, message) VALUES (?, ?, ?)",
		m.Name, m.Email, m.Message)
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT id, name, email, message, `read`, created_at FROM messages ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *MySQLStore) DeleteMessage(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) CountUnreadMessages(ctx context.Context) (int64, error) {
	var n int64
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE `read` = FALSE").Scan(&n)
	return n, err
}

func (s *MySQLStore) ListTestimonials(ctx context.Context, visibleOnly bool) ([]models.Testimonial, error) {
	query := "SELECT id, author, content, video_url, image, visible, created_at FROM testimonials"
	if visibleOnly {
		query += " WHERE visible = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.Author, &t.Content, &t.VideoURL, &t.Image, &t.Visible, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (s *MySQLStore) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO testimonials (author, content, video_url, image, visible) VALUES (?, ?, ?, ?, ?)",
		t.Author, t.Content, t.VideoURL, t.Image, t.Visible)
	if err != nil {
		return err
	}
	t.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE testimonials SET author = ?, content = ?, video_url = ?, image = ?, visible = ? WHERE id = ?",
		t.Author, t.Content, t.VideoURL, t.Image, t.Visible, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteTestimonial(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM testimonials WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) ListVideos(ctx context.Context, visibleOnly bool) ([]models.Video, error) {
	query := "SELECT id, title, description, video_url, thumbnail, visible, created_at FROM videos"
	if visibleOnly {
		query += " WHERE visible = TRUE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.Thumbnail, &v.Visible, &v.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (s *MySQLStore) CreateVideo(ctx context.Context, v *models.Video) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO videos (title, description, video_url, thumbnail, visible) VALUES (?, ?, ?, ?, ?)",
		v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Visible)
	if err != nil {
		return err
	}
	v.ID, err = res.LastInsertId()
	return err
}

func (s *MySQLStore) UpdateVideo(ctx context.Context, v *models.Video) error {
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE videos SET title = ?, description = ?, video_url = ?, thumbnail = ?, visible = ? WHERE id = ?",
		v.Title, v.Description, v.VideoURL, v.Thumbnail, v.Visible, v.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteVideo(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) GetGiveaway(ctx context.Context) (*models.Giveaway, error) {
	var g models.Giveaway
	err := s.q(ctx).QueryRowContext(ctx,
		"SELECT id, title, description, end_date, image, visible, created_at FROM giveaways WHERE visible = TRUE ORDER BY end_date DESC LIMIT 1").
		Scan(&g.ID, &g.Title, &g.Description, &g.EndDate, &g.Image, &g.Visible, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *MySQLStore) SaveGiveaway(ctx context.Context, g *models.Giveaway) error {
	if g.ID == 0 {
		res, err := s.q(ctx).ExecContext(ctx,
			"INSERT INTO giveaways (title, description, end_date, image, visible) VALUES (?, ?, ?, ?, ?)",
			g.Title, g.Description, g.EndDate, g.Image, g.Visible)
		if err != nil {
			return err
		}
		g.ID, err = res.LastInsertId()
		return err
	}
	res, err := s.q(ctx).ExecContext(ctx,
		"UPDATE giveaways SET title = ?, description = ?, end_date = ?, image = ?, visible = ? WHERE id = ?",
		g.Title, g.Description, g.EndDate, g.Image, g.Visible, g.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteGiveaway(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, "DELETE FROM giveaways WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *MySQLStore) ListSections(ctx context.Context) ([]models.Section, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		"SELECT id, section_name, visible FROM section_visibility ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var sec models.Section
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.Visible); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

func (s *MySQLStore) SetSectionVisibility(ctx context.Context, name string, visible bool) error {
	_, err := s.q(ctx).ExecContext(ctx,
		"INSERT INTO section_visibility (section_name, visible) VALUES (?, ?) ON DUPLICATE KEY UPDATE visible = VALUES(visible)",
		name, visible)
	return err
}

// requireRow maps zero affected rows to ErrNotFound. The pool is opened
// with CLIENT_FOUND_ROWS, so a no-op update still counts its matched row.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
