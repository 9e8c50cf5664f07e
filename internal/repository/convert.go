package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository/model"
)

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseIDs(ss []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		out = append(out, parseID(s))
	}
	return out
}

func toModelUser(u *domain.User) *model.User {
	return &model.User{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		Image:        u.Image,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		RoleLocked:   u.RoleLocked,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainUser(m *model.User) *domain.User {
	return &domain.User{
		ID:           parseID(m.ID),
		Name:         m.Name,
		Email:        m.Email,
		Image:        m.Image,
		Role:         domain.Role(m.Role),
		PasswordHash: m.PasswordHash,
		RoleLocked:   m.RoleLocked,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toModelListing(l *domain.Listing) *model.Listing {
	m := &model.Listing{
		ID:              l.ID.String(),
		OwnerID:         l.OwnerID.String(),
		Title:           l.Title,
		Description:     l.Description,
		City:            l.City,
		Area:            l.Area,
		Address:         l.Address,
		Bedrooms:        l.Bedrooms,
		Bathrooms:       l.Bathrooms,
		SizeSqft:        l.SizeSqft,
		PricePerMonth:   l.PricePerMonth,
		SecurityDeposit: l.SecurityDeposit,
		MaintenanceFee:  l.MaintenanceFee,
		AvailableFrom:   l.AvailableFrom,
		Amenities:       append([]string{}, l.Amenities...),
		Images:          append([]string{}, l.Images...),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if !l.AvailableTo.IsZero() {
		to := l.AvailableTo
		m.AvailableTo = &to
	}
	return m
}

func toDomainListing(m *model.Listing) *domain.Listing {
	l := &domain.Listing{
		ID:              parseID(m.ID),
		OwnerID:         parseID(m.OwnerID),
		Title:           m.Title,
		Description:     m.Description,
		City:            m.City,
		Area:            m.Area,
		Address:         m.Address,
		Bedrooms:        m.Bedrooms,
		Bathrooms:       m.Bathrooms,
		SizeSqft:        m.SizeSqft,
		PricePerMonth:   m.PricePerMonth,
		SecurityDeposit: m.SecurityDeposit,
		MaintenanceFee:  m.MaintenanceFee,
		AvailableFrom:   m.AvailableFrom,
		Amenities:       append([]string{}, m.Amenities...),
		Images:          append([]string{}, m.Images...),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.AvailableTo != nil {
		l.AvailableTo = *m.AvailableTo
	}
	return l
}

func toModelLeaseRequest(lr *domain.LeaseRequest) *model.LeaseRequest {
	return &model.LeaseRequest{
		ID:                 lr.ID.String(),
		ListingID:          lr.ListingID.String(),
		RenterID:           lr.RenterID.String(),
		OwnerID:            lr.OwnerID.String(),
		Status:             string(lr.Status),
		Active:             lr.Active(),
		Message:            lr.Message,
		VisitDate:          lr.VisitDate,
		AgreementURL:       lr.AgreementURL,
		AgreementSignedAt:  lr.AgreementSignedAt,
		RejectionReason:    lr.RejectionReason,
		CancellationReason: lr.CancellationReason,
		Version:            lr.Version,
		CreatedAt:          lr.CreatedAt,
		UpdatedAt:          lr.UpdatedAt,
	}
}

func toDomainLeaseRequest(m *model.LeaseRequest) *domain.LeaseRequest {
	return &domain.LeaseRequest{
		ID:                 parseID(m.ID),
		ListingID:          parseID(m.ListingID),
		RenterID:           parseID(m.RenterID),
		OwnerID:            parseID(m.OwnerID),
		Status:             domain.LeaseStatus(m.Status),
		Message:            m.Message,
		VisitDate:          m.VisitDate,
		AgreementURL:       m.AgreementURL,
		AgreementSignedAt:  m.AgreementSignedAt,
		RejectionReason:    m.RejectionReason,
		CancellationReason: m.CancellationReason,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toModelBooking(b *domain.Booking) *model.Booking {
	return &model.Booking{
		ID:              b.ID.String(),
		LeaseRequestID:  b.LeaseRequestID.String(),
		ListingID:       b.ListingID.String(),
		RenterID:        b.RenterID.String(),
		OwnerID:         b.OwnerID.String(),
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		MonthlyRent:     b.MonthlyRent,
		SecurityDeposit: b.SecurityDeposit,
		AgreementURL:    b.AgreementURL,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toDomainBooking(m *model.Booking) *domain.Booking {
	return &domain.Booking{
		ID:              parseID(m.ID),
		LeaseRequestID:  parseID(m.LeaseRequestID),
		ListingID:       parseID(m.ListingID),
		RenterID:        parseID(m.RenterID),
		OwnerID:         parseID(m.OwnerID),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		MonthlyRent:     m.MonthlyRent,
		SecurityDeposit: m.SecurityDeposit,
		AgreementURL:    m.AgreementURL,
		Status:          domain.BookingStatus(m.Status),
		PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toModelBookingIntent(i *domain.BookingIntent) *model.BookingIntent {
	return &model.BookingIntent{
		LeaseRequestID: i.LeaseRequestID.String(),
		Status:         string(i.Status),
		Attempts:       i.Attempts,
		LastError:      i.LastError,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func toDomainBookingIntent(m *model.BookingIntent) *domain.BookingIntent {
	return &domain.BookingIntent{
		LeaseRequestID: parseID(m.LeaseRequestID),
		Status:         domain.IntentStatus(m.Status),
		Attempts:       m.Attempts,
		LastError:      m.LastError,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toModelConversation(c *domain.Conversation) *model.Conversation {
	m := &model.Conversation{
		ID:            c.ID.String(),
		Key:           c.Key,
		Participants:  []string{c.Participants[0].String(), c.Participants[1].String()},
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
	if c.ListingID != uuid.Nil {
		m.ListingID = c.ListingID.String()
	}
	return m
}

func toDomainConversation(m *model.Conversation) *domain.Conversation {
	c := &domain.Conversation{
		ID:            parseID(m.ID),
		Key:           m.Key,
		LastMessage:   m.LastMessage,
		LastMessageAt: m.LastMessageAt,
		CreatedAt:     m.CreatedAt,
	}
	if m.ListingID != "" {
		c.ListingID = parseID(m.ListingID)
	}
	for i := 0; i < len(m.Participants) && i < 2; i++ {
		c.Participants[i] = parseID(m.Participants[i])
	}
	return c
}

func toModelMessage(msg *domain.Message) *model.Message {
	return &model.Message{
		ID:             msg.ID.String(),
		ConversationID: msg.ConversationID.String(),
		SenderID:       msg.SenderID.String(),
		Text:           msg.Text,
		Read:           msg.Read,
		CreatedAt:      msg.CreatedAt,
		CreatedAtNs:    msg.CreatedAt.UnixNano(),
	}
}

func toDomainMessage(m *model.Message) *domain.Message {
	created := m.CreatedAt
	if m.CreatedAtNs != 0 {
		created = time.Unix(0, m.CreatedAtNs).UTC()
	}
	return &domain.Message{
		ID:             parseID(m.ID),
		ConversationID: parseID(m.ConversationID),
		SenderID:       parseID(m.SenderID),
		Text:           m.Text,
		Read:           m.Read,
		CreatedAt:      created,
	}
}

func toModelCommunity(c *domain.Community) *model.Community {
	return &model.Community{
		ID:          c.ID.String(),
		Name:        c.Name,
		NameKey:     strings.ToLower(c.Name),
		Description: c.Description,
		CreatorID:   c.CreatorID.String(),
		Members:     idStrings(c.Members),
		MemberCount: c.MemberCount,
		PostCount:   c.PostCount,
		CreatedAt:   c.CreatedAt,
	}
}

func toDomainCommunity(m *model.Community) *domain.Community {
	return &domain.Community{
		ID:          parseID(m.ID),
		Name:        m.Name,
		Description: m.Description,
		CreatorID:   parseID(m.CreatorID),
		Members:     parseIDs(m.Members),
		MemberCount: m.MemberCount,
		PostCount:   m.PostCount,
		CreatedAt:   m.CreatedAt,
	}
}

func toModelPost(p *domain.Post) *model.Post {
	return &model.Post{
		ID:           p.ID.String(),
		CommunityID:  p.CommunityID.String(),
		AuthorID:     p.AuthorID.String(),
		Content:      p.Content,
		Likes:        idStrings(p.Likes),
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
	}
}

func toDomainPost(m *model.Post) *domain.Post {
	return &domain.Post{
		ID:           parseID(m.ID),
		CommunityID:  parseID(m.CommunityID),
		AuthorID:     parseID(m.AuthorID),
		Content:      m.Content,
		Likes:        parseIDs(m.Likes),
		LikeCount:    m.LikeCount,
		CommentCount: m.CommentCount,
		CreatedAt:    m.CreatedAt,
	}
}

func toModelComment(c *domain.Comment) *model.Comment {
	return &model.Comment{
		ID:         c.ID.String(),
		PostID:     c.PostID.String(),
		AuthorID:   c.AuthorID.String(),
		Text:       c.Text,
		ReplyCount: c.ReplyCount,
		CreatedAt:  c.CreatedAt,
	}
}

func toDomainComment(m *model.Comment) *domain.Comment {
	return &domain.Comment{
		ID:         parseID(m.ID),
		PostID:     parseID(m.PostID),
		AuthorID:   parseID(m.AuthorID),
		Text:       m.Text,
		ReplyCount: m.ReplyCount,
		CreatedAt:  m.CreatedAt,
	}
}

func toModelReply(r *domain.Reply) *model.Reply {
	return &model.Reply{
		ID:        r.ID.String(),
		CommentID: r.CommentID.String(),
		AuthorID:  r.AuthorID.String(),
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func toDomainReply(m *model.Reply) *domain.Reply {
	return &domain.Reply{
		ID:        parseID(m.ID),
		CommentID: parseID(m.CommentID),
		AuthorID:  parseID(m.AuthorID),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}
