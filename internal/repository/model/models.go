package model

import "time"

// Documents stored in MongoDB. Ids are kept as their canonical uuid strings.

type User struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Image        string    `bson:"image,omitempty"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	RoleLocked   bool      `bson:"role_locked"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type Listing struct {
	ID              string     `bson:"_id"`
	OwnerID         string     `bson:"owner_id"`
	Title           string     `bson:"title"`
	Description     string     `bson:"description"`
	City            string     `bson:"city"`
	Area            string     `bson:"area"`
	Address         string     `bson:"address"`
	Bedrooms        int        `bson:"bedrooms"`
	Bathrooms       int        `bson:"bathrooms"`
	SizeSqft        int        `bson:"size_sqft"`
	PricePerMonth   float64    `bson:"price_per_month"`
	SecurityDeposit float64    `bson:"security_deposit"`
	MaintenanceFee  float64    `bson:"maintenance_fee"`
	AvailableFrom   time.Time  `bson:"available_from"`
	AvailableTo     *time.Time `bson:"available_to,omitempty"`
	Amenities       []string   `bson:"amenities"`
	Images          []string   `bson:"images"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

type LeaseRequest struct {
	ID                 string     `bson:"_id"`
	ListingID          string     `bson:"listing_id"`
	RenterID           string     `bson:"renter_id"`
	OwnerID            string     `bson:"owner_id"`
	Status             string     `bson:"status"`
	Active             bool       `bson:"active"`
	Message            string     `bson:"message"`
	VisitDate          *time.Time `bson:"visit_date,omitempty"`
	AgreementURL       string     `bson:"agreement_url,omitempty"`
	AgreementSignedAt  *time.Time `bson:"agreement_signed_at,omitempty"`
	RejectionReason    string     `bson:"rejection_reason,omitempty"`
	CancellationReason string     `bson:"cancellation_reason,omitempty"`
	Version            int64      `bson:"version"`
	CreatedAt          time.Time  `bson:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at"`
}

type Booking struct {
	ID              string    `bson:"_id"`
	LeaseRequestID  string    `bson:"lease_request_id"`
	ListingID       string    `bson:"listing_id"`
	RenterID        string    `bson:"renter_id"`
	OwnerID         string    `bson:"owner_id"`
	StartDate       time.Time `bson:"start_date"`
	EndDate         time.Time `bson:"end_date"`
	MonthlyRent     float64   `bson:"monthly_rent"`
	SecurityDeposit float64   `bson:"security_deposit"`
	AgreementURL    string    `bson:"agreement_url,omitempty"`
	Status          string    `bson:"status"`
	PaymentStatus   string    `bson:"payment_status"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

type BookingIntent struct {
	LeaseRequestID string    `bson:"_id"`
	Status         string    `bson:"status"`
	Attempts       int       `bson:"attempts"`
	LastError      string    `bson:"last_error,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

type Conversation struct {
	ID            string    `bson:"_id"`
	Key           string    `bson:"key"`
	ListingID     string    `bson:"listing_id,omitempty"`
	Participants  []string  `bson:"participants"`
	LastMessage   string    `bson:"last_message"`
	LastMessageAt time.Time `bson:"last_message_at"`
	CreatedAt     time.Time `bson:"created_at"`
}

// Message carries created_at_ns next to created_at because BSON dates only
// keep milliseconds and ordering must follow insertion.
type Message struct {
	ID             string    `bson:"_id"`
	ConversationID string    `bson:"conversation_id"`
	SenderID       string    `bson:"sender_id"`
	Text           string    `bson:"text"`
	Read           bool      `bson:"read"`
	CreatedAt      time.Time `bson:"created_at"`
	CreatedAtNs    int64     `bson:"created_at_ns"`
}

type Community struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	NameKey     string    `bson:"name_key"`
	Description string    `bson:"description"`
	CreatorID   string    `bson:"creator_id"`
	Members     []string  `bson:"members"`
	MemberCount int       `bson:"member_count"`
	PostCount   int       `bson:"post_count"`
	CreatedAt   time.Time `bson:"created_at"`
}

type Post struct {
	ID           string    `bson:"_id"`
	CommunityID  string    `bson:"community_id"`
	AuthorID     string    `bson:"author_id"`
	Content      string    `bson:"content"`
	Likes        []string  `bson:"likes"`
	LikeCount    int       `bson:"like_count"`
	CommentCount int       `bson:"comment_count"`
	CreatedAt    time.Time `bson:"created_at"`
}

type Comment struct {
	ID         string    `bson:"_id"`
	PostID     string    `bson:"post_id"`
	AuthorID   string    `bson:"author_id"`
	Text       string    `bson:"text"`
	ReplyCount int       `bson:"reply_count"`
	CreatedAt  time.Time `bson:"created_at"`
}

type Reply struct {
	ID        string    `bson:"_id"`
	CommentID string    `bson:"comment_id"`
	AuthorID  string    `bson:"author_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}
