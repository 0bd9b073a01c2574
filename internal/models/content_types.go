package models

import "time"

// Testimonial is the model for the 'testimonials' table.
type Testimonial struct {
	ID        int64     `json:"id" db:"id"`
	Author    string    `json:"author" db:"author"`
	Content   string    `json:"content" db:"content"`
	VideoURL  *string   `json:"videoUrl,omitempty" db:"video_url"`
	Image     *string   `json:"image,omitempty" db:"image"`
	Visible   bool      `json:"visible" db:"visible"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Video is the model for the 'videos' table.
type Video struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	VideoURL    string    `json:"videoUrl" db:"video_url"`
	Thumbnail   *string   `json:"thumbnail,omitempty" db:"thumbnail"`
	Visible     bool      `json:"visible" db:"visible"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Giveaway is the model for the 'giveaways' table. At most one is active.
type Giveaway struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Visible     bool      `json:"visible" db:"visible"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Subscriber is the model for the 'subscribers' table (newsletter).
type Subscriber struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Message is the model for the 'messages' table (contact form).
type Message struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Section is the model for the 'section_visibility' table, toggling
// homepage sections on and off.
type Section struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"sectionName" db:"section_name"`
	Visible bool   `json:"visible" db:"visible"`
}
