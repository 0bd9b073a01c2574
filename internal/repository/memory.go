package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/opaline/storefront/internal/models"
)

// MemoryStore is an in-process Store used by tests and local development.
// A single mutex guards all tables; WithTransaction holds it for the whole
// callback and marks the context so nested calls skip locking.
type MemoryStore struct {
	mu sync.Mutex

	users         map[int64]*models.User
	products      map[int64]*models.Product
	cartItems     map[int64]*models.CartItem
	wishlistItems map[int64]*models.WishlistItem
	orders        map[int64]*models.Order
	orderItems    map[int64]*models.OrderItem
	payments      map[int64]*models.Payment
	notifications map[int64]*models.Notification
	subscribers   map[int64]*models.Subscriber
	messages      map[int64]*models.Message
	testimonials  map[int64]*models.Testimonial
	videos        map[int64]*models.Video
	giveaways     map[int64]*models.Giveaway
	sections      map[string]*models.Section

	seq map[string]int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]*models.User),
		products:      make(map[int64]*models.Product),
		cartItems:     make(map[int64]*models.CartItem),
		wishlistItems: make(map[int64]*models.WishlistItem),
		orders:        make(map[int64]*models.Order),
		orderItems:    make(map[int64]*models.OrderItem),
		payments:      make(map[int64]*models.Payment),
		notifications: make(map[int64]*models.Notification),
		subscribers:   make(map[int64]*models.Subscriber),
		messages:      make(map[int64]*models.Message),
		testimonials:  make(map[int64]*models.Testimonial),
		videos:        make(map[int64]*models.Video),
		giveaways:     make(map[int64]*models.Giveaway),
		sections:      make(map[string]*models.Section),
		seq:           make(map[string]int64),
	}
}

type memTxKey struct{}

// lock acquires the store mutex unless ctx already runs inside a
// transaction, in which case the mutex is held by WithTransaction.
func (s *MemoryStore) lock(ctx context.Context) func() {
	if ctx.Value(memTxKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, true))
}

func (s *MemoryStore) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// --- users ---

func (s *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	defer s.lock(ctx)()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = s.nextID("users")
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	defer s.lock(ctx)()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer s.lock(ctx)()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer s.lock(ctx)()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListAdmins(ctx context.Context) ([]models.User, error) {
	defer s.lock(ctx)()
	var admins []models.User
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			admins = append(admins, *u)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	defer s.lock(ctx)()
	return int64(len(s.users)), nil
}

// --- products ---

func (s *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) error {
	defer s.lock(ctx)()
	p.ID = s.nextID("products")
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	defer s.lock(ctx)()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	defer s.lock(ctx)()
	existing, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ListProducts(ctx context.Context, visibleOnly bool) ([]models.Product, error) {
	defer s.lock(ctx)()
	var out []models.Product
	for _, p := range s.products {
		if visibleOnly && !p.Visible {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- cart ---

func (s *MemoryStore) UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	defer s.lock(ctx)()
	for _, item := range s.cartItems {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity += quantity
			item.UpdatedAt = time.Now()
			return nil
		}
	}
	now := time.Now()
	item := &models.CartItem{
		ID:        s.nextID("cart_items"),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.cartItems[item.ID] = item
	return nil
}

func (s *MemoryStore) GetCartItem(ctx context.Context, itemID int64) (*models.CartItem, error) {
	defer s.lock(ctx)()
	item, ok := s.cartItems[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *MemoryStore) ListCartLines(ctx context.Context, userID int64) ([]models.CartLine, error) {
	defer s.lock(ctx)()
	var lines []models.CartLine
	for _, item := range s.cartItems {
		if item.UserID != userID {
			continue
		}
		p, ok := s.products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{
			CartItem:     *item,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			ProductImage: p.Image,
			LineTotal:    p.Price * float64(item.Quantity),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (s *MemoryStore) SetCartItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	defer s.lock(ctx)()
	item, ok := s.cartItems[itemID]
	if !ok {
		return ErrNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) DeleteCartItem(ctx context.Context, itemID int64) error {
	defer s.lock(ctx)()
	if _, ok := s.cartItems[itemID]; !ok {
		return ErrNotFound
	}
	delete(s.cartItems, itemID)
	return nil
}

func (s *MemoryStore) ClearCart(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()
	for id, item := range s.cartItems {
		if item.UserID == userID {
			delete(s.cartItems, id)
		}
	}
	return nil
}

func (s *MemoryStore) CountCartItems(ctx context.Context, userID int64) (int64, error) {
	defer s.lock(ctx)()
	var n int64
	for _, item := range s.cartItems {
		if item.UserID == userID {
			n += int64(item.Quantity)
		}
	}
	return n, nil
}

// --- wishlist ---

func (s *MemoryStore) AddWishlistItem(ctx context.Context, userID, productID int64) (bool, error) {
	defer s.lock(ctx)()
	for _, item := range s.wishlistItems {
		if item.UserID == userID && item.ProductID == productID {
			return false, nil
		}
	}
	item := &models.WishlistItem{
		ID:        s.nextID("wishlist_items"),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	s.wishlistItems[item.ID] = item
	return true, nil
}

func (s *MemoryStore) GetWishlistItem(ctx context.Context, itemID int64) (*models.WishlistItem, error) {
	defer s.lock(ctx)()
	item, ok := s.wishlistItems[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *MemoryStore) ListWishlistLines(ctx context.Context, userID int64) ([]models.WishlistLine, error) {
	defer s.lock(ctx)()
	var lines []models.WishlistLine
	for _, item := range s.wishlistItems {
		if item.UserID != userID {
			continue
		}
		p, ok := s.products[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, models.WishlistLine{
			WishlistItem: *item,
			ProductName:  p.Name,
			ProductPrice: p.Price,
			ProductImage: p.Image,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines, nil
}

func (s *MemoryStore) DeleteWishlistItem(ctx context.Context, itemID int64) error {
	defer s.lock(ctx)()
	if _, ok := s.wishlistItems[itemID]; !ok {
		return ErrNotFound
	}
	delete(s.wishlistItems, itemID)
	return nil
}

// --- orders ---

func (s *MemoryStore) CreateOrder(ctx context.Context, o *models.Order) error {
	defer s.lock(ctx)()
	o.ID = s.nextID("orders")
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *MemoryStore) AddOrderItem(ctx context.Context, item *models.OrderItem) error {
	defer s.lock(ctx)()
	item.ID = s.nextID("order_items")
	cp := *item
	s.orderItems[item.ID] = &cp
	return nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	defer s.lock(ctx)()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *MemoryStore) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	defer s.lock(ctx)()
	var items []models.OrderItem
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	defer s.lock(ctx)()
	var orders []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (s *MemoryStore) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	defer s.lock(ctx)()
	var orders []models.Order
	for _, o := range s.orders {
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	defer s.lock(ctx)()
	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetOrderPaymentOutcome(ctx context.Context, id int64, status, paymentStatus string) error {
	defer s.lock(ctx)()
	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	o.PaymentStatus = paymentStatus
	o.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) CancelOverdueOrders(ctx context.Context, cutoff time.Time) (int64, error) {
	defer s.lock(ctx)()
	var n int64
	for _, o := range s.orders {
		if o.Status == models.OrderStatusPending &&
			o.PaymentStatus == models.PaymentStatusPending &&
			o.CreatedAt.Before(cutoff) {
			o.Status = models.OrderStatusCancelled
			o.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CountOrders(ctx context.Context) (int64, error) {
	defer s.lock(ctx)()
	return int64(len(s.orders)), nil
}

func (s *MemoryStore) PaidRevenue(ctx context.Context) (float64, error) {
	defer s.lock(ctx)()
	var total float64
	for _, o := range s.orders {
		if o.PaymentStatus == models.PaymentStatusPaid {
			total += o.TotalAmount
		}
	}
	return total, nil
}

// --- payments ---

func (s *MemoryStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	defer s.lock(ctx)()
	for _, existing := range s.payments {
		if existing.PaymentIntentID == p.PaymentIntentID {
			return ErrDuplicate
		}
	}
	p.ID = s.nextID("payments")
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	defer s.lock(ctx)()
	for _, p := range s.payments {
		if p.PaymentIntentID == intentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SetPaymentStatus(ctx context.Context, id int64, status string) error {
	defer s.lock(ctx)()
	p, ok := s.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.PaymentStatus = status
	p.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ListPayments(ctx context.Context) ([]models.Payment, error) {
	defer s.lock(ctx)()
	var payments []models.Payment
	for _, p := range s.payments {
		payments = append(payments, *p)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID > payments[j].ID })
	return payments, nil
}

// --- notifications ---

func (s *MemoryStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	defer s.lock(ctx)()
	n.ID = s.nextID("notifications")
	n.CreatedAt = time.Now()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	defer s.lock(ctx)()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) MarkNotificationRead(ctx context.Context, id, userID int64) (bool, error) {
	defer s.lock(ctx)()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (s *MemoryStore) MarkAllNotificationsRead(ctx context.Context, userID int64) error {
	defer s.lock(ctx)()
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// --- content ---

func (s *MemoryStore) CreateSubscriber(ctx context.Context, email string) error {
	defer s.lock(ctx)()
	for _, sub := range s.subscribers {
		if strings.EqualFold(sub.Email, email) {
			return ErrDuplicate
		}
	}
	sub := &models.Subscriber{
		ID:        s.nextID("subscribers"),
		Email:     email,
		CreatedAt: time.Now(),
	}
	s.subscribers[sub.ID] = sub
	return nil
}

func (s *MemoryStore) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	defer s.lock(ctx)()
	var subs []models.Subscriber
	for _, sub := range s.subscribers {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID > subs[j].ID })
	return subs, nil
}

func (s *MemoryStore) DeleteSubscriber(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.subscribers[id]; !ok {
		return ErrNotFound
	}
	delete(s.subscribers, id)
	return nil
}

func (s *MemoryStore) CountSubscribers(ctx context.Context) (int64, error) {
	defer s.lock(ctx)()
	return int64(len(s.subscribers)), nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, m *models.Message) error {
	defer s.lock(ctx)()
	m.ID = s.nextID("messages")
	m.CreatedAt = time.Now()
	cp := *m
	s.messages[m.ID] = &cp
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	defer s.lock(ctx)()
	var out []models.Message
	for _, m := range s.messages {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) DeleteMessage(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.messages[id]; !ok {
		return ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

func (s *MemoryStore) CountUnreadMessages(ctx context.Context) (int64, error) {
	defer s.lock(ctx)()
	var n int64
	for _, m := range s.messages {
		if !m.Read {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListTestimonials(ctx context.Context, visibleOnly bool) ([]models.Testimonial, error) {
	defer s.lock(ctx)()
	var out []models.Testimonial
	for _, t := range s.testimonials {
		if visibleOnly && !t.Visible {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	defer s.lock(ctx)()
	t.ID = s.nextID("testimonials")
	t.CreatedAt = time.Now()
	cp := *t
	s.testimonials[t.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	defer s.lock(ctx)()
	existing, ok := s.testimonials[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = existing.CreatedAt
	cp := *t
	s.testimonials[t.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteTestimonial(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.testimonials[id]; !ok {
		return ErrNotFound
	}
	delete(s.testimonials, id)
	return nil
}

func (s *MemoryStore) ListVideos(ctx context.Context, visibleOnly bool) ([]models.Video, error) {
	defer s.lock(ctx)()
	var out []models.Video
	for _, v := range s.videos {
		if visibleOnly && !v.Visible {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateVideo(ctx context.Context, v *models.Video) error {
	defer s.lock(ctx)()
	v.ID = s.nextID("videos")
	v.CreatedAt = time.Now()
	cp := *v
	s.videos[v.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateVideo(ctx context.Context, v *models.Video) error {
	defer s.lock(ctx)()
	existing, ok := s.videos[v.ID]
	if !ok {
		return ErrNotFound
	}
	v.CreatedAt = existing.CreatedAt
	cp := *v
	s.videos[v.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteVideo(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.videos[id]; !ok {
		return ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *MemoryStore) GetGiveaway(ctx context.Context) (*models.Giveaway, error) {
	defer s.lock(ctx)()
	var latest *models.Giveaway
	for _, g := range s.giveaways {
		if !g.Visible {
			continue
		}
		if latest == nil || g.EndDate.After(latest.EndDate) {
			latest = g
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) SaveGiveaway(ctx context.Context, g *models.Giveaway) error {
	defer s.lock(ctx)()
	if g.ID == 0 {
		g.ID = s.nextID("giveaways")
		g.CreatedAt = time.Now()
	} else if _, ok := s.giveaways[g.ID]; !ok {
		return ErrNotFound
	}
	cp := *g
	s.giveaways[g.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteGiveaway(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.giveaways[id]; !ok {
		return ErrNotFound
	}
	delete(s.giveaways, id)
	return nil
}

func (s *MemoryStore) ListSections(ctx context.Context) ([]models.Section, error) {
	defer s.lock(ctx)()
	var sections []models.Section
	for _, sec := range s.sections {
		sections = append(sections, *sec)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	return sections, nil
}

func (s *MemoryStore) SetSectionVisibility(ctx context.Context, name string, visible bool) error {
	defer s.lock(ctx)()
	if sec, ok := s.sections[name]; ok {
		sec.Visible = visible
		return nil
	}
	s.sections[name] = &models.Section{
		ID:      s.nextID("sections"),
		Name:    name,
		Visible: visible,
	}
	return nil
}
