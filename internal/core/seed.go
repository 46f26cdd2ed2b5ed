package core

import (
	"context"
	"time"

	"affordhostel/pkg/domain"
)

const (
	mockUserID    = "1"
	mockPhone     = "+254712345678"
	imageQuery    = "?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"
	unsplashPhoto = "https://images.unsplash.com/"
)

var mockUserNames = map[Role]string{
	domain.RoleStudent:  "John Mwangi",
	domain.RoleLandlord: "James Omondi",
	domain.RoleAgent:    "Brian Kiprotich",
	domain.RoleAdmin:    "Sarah Wanjiku",
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// mockUser is the deterministic session identity for role.
func mockUser(role Role) User {
	u := User{
		ID:        mockUserID,
		Name:      mockUserNames[role],
		Email:     string(role) + "@example.com",
		Phone:     mockPhone,
		Role:      role,
		Verified:  true,
		CreatedAt: day(2023, time.June, 15),
	}
	if role == domain.RoleStudent {
		u.University = "University of Nairobi"
		u.StudentID = "UoN/2023/12345"
	}
	return u
}

func seedHostels() []Hostel {
	verified := func(h Hostel) Hostel {
		h.Verified = true
		h.Available = true
		h.VerificationStatus = domain.VerificationVerified
		return h
	}
	return []Hostel{
		verified(Hostel{
			Base:        domain.Base{ID: "1"},
			Name:        "Umoja Hostels",
			Description: "Modern, comfortable hostel near University of Nairobi with excellent amenities.",
			Price:       15000,
			Location:    "Near University of Nairobi",
			University:  "University of Nairobi",
			Images:      []string{unsplashPhoto + "photo-1560448204-e02f11c3d0e2" + imageQuery},
			Amenities:   []string{"WiFi", "Laundry", "24/7 Security", "Study Area"},
			Rating:      4.7,
			Reviews:     24,
			RoomTypes: []RoomType{
				{ID: "1", Type: "Single Room", Price: 15000, Available: 6, Total: 20, Features: []string{"Private bathroom", "Desk", "Wardrobe"}},
				{ID: "2", Type: "Shared Room", Price: 10000, Available: 8, Total: 15, Features: []string{"Shared bathroom", "Bunk bed", "Locker"}},
			},
			LandlordID: "2",
		}),
		verified(Hostel{
			Base:        domain.Base{ID: "2"},
			Name:        "Kilele Hostels",
			Description: "Affordable accommodation with modern facilities near Kenyatta University.",
			Price:       12000,
			Location:    "Near Kenyatta University",
			University:  "Kenyatta University",
			Images:      []string{unsplashPhoto + "photo-1582719508461-905c673771fd" + imageQuery},
			Amenities:   []string{"Parking", "Gym", "Study Area", "WiFi"},
			Rating:      4.5,
			Reviews:     18,
			RoomTypes: []RoomType{
				{ID: "1", Type: "Single Room", Price: 12000, Available: 3, Total: 12, Features: []string{"Private bathroom", "AC", "Desk"}},
			},
			LandlordID: "3",
		}),
		verified(Hostel{
			Base:        domain.Base{ID: "3"},
			Name:        "Prestige Hostels",
			Description: "Premium hostel with luxury amenities including swimming pool and gym.",
			Price:       18000,
			Location:    "Near Mount Kenya University",
			University:  "Mount Kenya University",
			Images:      []string{unsplashPhoto + "photo-1502672260266-1c1ef2d93688" + imageQuery},
			Amenities:   []string{"Swimming Pool", "Gym", "Study Area", "Cafeteria"},
			Rating:      4.8,
			Reviews:     32,
			RoomTypes: []RoomType{
				{ID: "1", Type: "Deluxe Room", Price: 18000, Available: 3, Total: 8, Features: []string{"Private bathroom", "AC", "Balcony"}},
			},
			LandlordID: "4",
		}),
		verified(Hostel{
			Base:        domain.Base{ID: "4"},
			Name:        "Greenview Apartments",
			Description: "Spacious apartments with garden views and modern amenities.",
			Price:       20000,
			Location:    "Near JKUAT",
			University:  "JKUAT",
			Images:      []string{unsplashPhoto + "photo-1522708323590-d24dbb6b0267" + imageQuery},
			Amenities:   []string{"Garden", "Parking", "WiFi", "Kitchen"},
			Rating:      4.6,
			Reviews:     15,
			RoomTypes: []RoomType{
				{ID: "1", Type: "Studio Apartment", Price: 20000, Available: 4, Total: 10, Features: []string{"Kitchenette", "Private bathroom", "Balcony"}},
			},
			LandlordID: "2",
		}),
	}
}

func seedReviews() []Review {
	return []Review{
		{
			Base:     domain.Base{ID: "1", CreatedAt: day(2023, time.July, 1)},
			HostelID: "1",
			UserID:   "1",
			UserName: "John Mwangi",
			Rating:   5,
			Comment:  "Great hostel with clean facilities and friendly staff. The location is perfect for university students.",
			Helpful:  12,
		},
		{
			Base:     domain.Base{ID: "2", CreatedAt: day(2023, time.June, 15)},
			HostelID: "1",
			UserID:   "2",
			UserName: "Grace Akinyi",
			Rating:   4,
			Comment:  "The study area is well-equipped and quiet. Internet is reliable which is great for online classes.",
			Helpful:  8,
		},
	}
}

// seedBookings returns the demo bookings of user; only students have any.
// Active seed bookings hold a room while the session lasts, so the seed
// catalog counts include those rooms.
func seedBookings(user User) []Booking {
	if user.Role != domain.RoleStudent {
		return nil
	}
	return []Booking{
		{
			Base:      domain.Base{ID: "1", CreatedAt: day(2023, time.July, 10)},
			HostelID:  "1",
			StudentID: user.ID,
			RoomType:  "Single Room",
			CheckIn:   day(2023, time.August, 15),
			CheckOut:  day(2023, time.December, 15),
			Amount:    60000,
			Status:    domain.BookingConfirmed,
		},
		{
			Base:      domain.Base{ID: "2", CreatedAt: day(2023, time.July, 12)},
			HostelID:  "3",
			StudentID: user.ID,
			RoomType:  "Deluxe Room",
			CheckIn:   day(2023, time.September, 1),
			CheckOut:  day(2023, time.December, 31),
			Amount:    72000,
			Status:    domain.BookingPending,
		},
	}
}

type seedMessage struct {
	title   string
	message string
	kind    domain.NotificationType
	read    bool
}

var roleNotifications = map[Role][2]seedMessage{
	domain.RoleStudent: {
		{"Booking Confirmed", "Your booking at Umoja Hostels has been confirmed.", domain.NotificationSuccess, false},
		{"Payment Reminder", "Your payment for Prestige Hostels is due in 3 days.", domain.NotificationWarning, false},
	},
	domain.RoleLandlord: {
		{"New Booking Request", "You have a new booking request for Umoja Hostels.", domain.NotificationInfo, false},
		{"Property Verification Complete", "Your property Kilele Hostels has been verified.", domain.NotificationSuccess, true},
	},
	domain.RoleAgent: {
		{"New Verification Request", "Sunset View Hostels requires verification.", domain.NotificationInfo, false},
		{"Verification Approved", "Your verification for Haven Residences was approved.", domain.NotificationSuccess, true},
	},
	domain.RoleAdmin: {
		{"System Alert", "Server maintenance scheduled for tonight.", domain.NotificationWarning, false},
		{"New User Registration", "15 new users registered today.", domain.NotificationInfo, true},
	},
}

// seedNotifications returns the welcome message followed by the two role
// specific messages.
func seedNotifications(user User) []Notification {
	out := []Notification{{
		Base:    domain.Base{ID: "1", CreatedAt: day(2023, time.July, 12)},
		UserID:  user.ID,
		Title:   "Welcome to AffordHostel!",
		Message: "Your account has been successfully created.",
		Type:    domain.NotificationSuccess,
	}}
	msgs, ok := roleNotifications[user.Role]
	if !ok {
		return out
	}
	dates := [2]time.Time{day(2023, time.July, 12), day(2023, time.July, 10)}
	ids := [2]string{"2", "3"}
	for i, m := range msgs {
		out = append(out, Notification{
			Base:    domain.Base{ID: ids[i], CreatedAt: dates[i]},
			UserID:  user.ID,
			Title:   m.title,
			Message: m.message,
			Type:    m.kind,
			Read:    m.read,
		})
	}
	return out
}

// seedCatalog loads the demo hostels and reviews into an empty store.
func (s *Service) seedCatalog(ctx context.Context) error {
	if len(s.store.ListHostels()) > 0 {
		return nil
	}
	_, err := s.run(ctx, opSeedCatalog, func(tx Transaction) (string, error) {
		for _, h := range seedHostels() {
			if _, err := tx.CreateHostel(h); err != nil {
				return "", err
			}
		}
		for _, r := range seedReviews() {
			if _, err := tx.CreateReview(r); err != nil {
				return "", err
			}
		}
		return "", nil
	})
	return err
}
