package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoginRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     LoginRequest
		wantErr bool
	}{
		{"role only", LoginRequest{Role: RoleAgent}, false},
		{"empty", LoginRequest{}, false},
		{"bad role", LoginRequest{Role: "janitor"}, true},
		{"bad email", LoginRequest{Email: "nope", Role: RoleStudent}, true},
		{"good email", LoginRequest{Email: "student@example.com", Role: RoleStudent}, false},
	}
	for _, tc := range cases {
		err := tc.req.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: unexpected error state %v", tc.name, err)
		}
		if err != nil && !errors.Is(err, ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestBookingRequestValidate(t *testing.T) {
	in := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ok := BookingRequest{HostelID: "1", RoomType: "Single Room", CheckIn: in, CheckOut: in.AddDate(0, 4, 0), Amount: 60000}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid booking request: %v", err)
	}

	reversed := ok
	reversed.CheckOut = in.AddDate(0, 0, -1)
	err := reversed.Validate()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["check_out"]; !ok {
		t.Fatalf("expected check_out field error, got %+v", verr.Fields)
	}

	free := ok
	free.Amount = 0
	if err := free.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected amount validation error, got %v", err)
	}
}

func TestAddHostelRequestValidate(t *testing.T) {
	req := AddHostelRequest{
		Name:     "Sunrise",
		Location: "Near JKUAT",
		Price:    9000,
		RoomTypes: []RoomTypeInput{
			{Type: "Single Room", Price: 9000, Total: 4},
			{Type: "Shared Room", Price: 6000, Total: 8},
		},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request: %v", err)
	}
	req.RoomTypes = append(req.RoomTypes, RoomTypeInput{Type: "Single Room", Price: 1, Total: 1})
	if err := req.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected duplicate room type rejection, got %v", err)
	}
	req.RoomTypes = []RoomTypeInput{{Type: "", Price: 1, Total: 1}}
	err := req.Validate()
	if err == nil || !strings.Contains(err.Error(), "room_types[0].type") {
		t.Fatalf("expected nested field path in error, got %v", err)
	}
}

func TestReviewAndReportValidation(t *testing.T) {
	if err := (ReviewRequest{HostelID: "1", Rating: 6, Comment: "x"}).Validate(); err == nil {
		t.Fatalf("expected rating out of range")
	}
	if err := (ReviewRequest{HostelID: "1", Rating: 5, Comment: "great"}).Validate(); err != nil {
		t.Fatalf("expected valid review: %v", err)
	}
	if err := (VerificationReportRequest{Status: VerificationPendingReview}).Validate(); err == nil {
		t.Fatalf("pending_review is not a report outcome")
	}
	report := VerificationReportRequest{
		Status:  VerificationVerified,
		Uploads: []Upload{{Filename: "a.txt", ContentType: "text/plain", Body: []byte("x")}},
	}
	if err := report.Validate(); err == nil {
		t.Fatalf("expected non-image upload rejection")
	}
}

func TestUploadValidateImageSize(t *testing.T) {
	u := Upload{Filename: "big.png", ContentType: "image/png", Body: make([]byte, MaxUploadBytes+1)}
	if err := u.ValidateImage(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected size rejection, got %v", err)
	}
	u.Body = u.Body[:10]
	if err := u.ValidateImage(); err != nil {
		t.Fatalf("expected small image to pass: %v", err)
	}
}

func TestReceiptRequestRequiresPhoneForMPesa(t *testing.T) {
	if err := (ReceiptRequest{PaymentMethod: PaymentMPesa}).Validate(); err == nil {
		t.Fatalf("expected phone requirement for mpesa")
	}
	if err := (ReceiptRequest{PaymentMethod: PaymentCard}).Validate(); err != nil {
		t.Fatalf("card needs no phone: %v", err)
	}
	if err := (ReceiptRequest{PaymentMethod: "cash"}).Validate(); err == nil {
		t.Fatalf("expected unknown payment method rejection")
	}
}

func TestHostelPatchApply(t *testing.T) {
	h := Hostel{Name: "Old", Price: 1, Amenities: []string{"WiFi"}}
	name := "New"
	amenities := []string{"Gym"}
	HostelPatch{Name: &name, Amenities: &amenities}.Apply(&h)
	if h.Name != "New" || h.Price != 1 || len(h.Amenities) != 1 || h.Amenities[0] != "Gym" {
		t.Fatalf("unexpected patched hostel %+v", h)
	}
	amenities[0] = "Pool"
	if h.Amenities[0] != "Gym" {
		t.Fatalf("patch must copy slices")
	}
}

func TestHostelPatchValidateRoomTypes(t *testing.T) {
	rooms := []RoomType{{ID: "1", Type: "Single Room", Available: 1, Total: 2}, {ID: "2", Type: "Single Room", Available: 0, Total: 1}}
	err := HostelPatch{RoomTypes: &rooms}.Validate()
	var verr ValidationError
	if !errors.As(err, &verr) || verr.Fields["room_types"] == "" {
		t.Fatalf("expected duplicate room type rejection, got %v", err)
	}
	rooms[1].Type = "Shared Room"
	if err := (HostelPatch{RoomTypes: &rooms}).Validate(); err != nil {
		t.Fatalf("distinct room types should pass: %v", err)
	}
	if err := (HostelPatch{}).Validate(); err != nil {
		t.Fatalf("empty patch should pass: %v", err)
	}
}

func TestHostelQueryMatches(t *testing.T) {
	h := Hostel{Name: "Umoja Hostels", Location: "Near University of Nairobi", University: "University of Nairobi", Price: 15000, Amenities: []string{"WiFi", "Laundry"}, Verified: true}
	low, high := 10000.0, 16000.0
	cases := []struct {
		q    HostelQuery
		want bool
	}{
		{HostelQuery{Term: "umoja"}, true},
		{HostelQuery{Term: "nairobi"}, true},
		{HostelQuery{Term: "kilele"}, false},
		{HostelQuery{University: "JKUAT"}, false},
		{HostelQuery{MinPrice: &low, MaxPrice: &high}, true},
		{HostelQuery{MaxPrice: &low}, false},
		{HostelQuery{Amenities: []string{"WiFi", "Laundry"}}, true},
		{HostelQuery{Amenities: []string{"WiFi", "Gym"}}, false},
		{HostelQuery{VerifiedOnly: true}, true},
	}
	for i, tc := range cases {
		if got := tc.q.Matches(h); got != tc.want {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
	if err := (HostelQuery{MinPrice: &high, MaxPrice: &low}).Validate(); err == nil {
		t.Fatalf("expected inverted price range rejection")
	}
	if err := (HostelQuery{Sort: "cheapest"}).Validate(); err == nil {
		t.Fatalf("expected unknown sort rejection")
	}
}

func TestCompanyInfoCloneIsDeep(t *testing.T) {
	active := true
	info := CompanyInfo{Mission: "m", Team: []TeamMember{{ID: "1", Name: "A", Active: &active}}}
	cp := info.Clone()
	cp.Team[0].Name = "B"
	*cp.Team[0].Active = false
	if info.Team[0].Name != "A" || !*info.Team[0].Active {
		t.Fatalf("clone shares state with original: %+v", info.Team[0])
	}
}

func TestStatusHelpers(t *testing.T) {
	if !BookingCancelled.ReleasesRoom() || BookingConfirmed.ReleasesRoom() {
		t.Fatalf("unexpected ReleasesRoom semantics")
	}
	if !BookingPending.HoldsRoom() || !BookingConfirmed.HoldsRoom() || BookingRejected.HoldsRoom() || BookingCancelled.HoldsRoom() {
		t.Fatalf("unexpected HoldsRoom semantics")
	}
	if VerificationPendingReview.IsReportOutcome() || !VerificationNeedsMoreInfo.IsReportOutcome() {
		t.Fatalf("unexpected report outcome semantics")
	}
	for _, r := range Roles() {
		if !r.Valid() {
			t.Fatalf("role %s should be valid", r)
		}
	}
	h := Hostel{RoomTypes: []RoomType{{Type: "A", Available: 2}, {Type: "B", Available: 3}}}
	if h.AvailableRooms() != 5 {
		t.Fatalf("expected 5 available rooms")
	}
	if idx, ok := h.FindRoomType("B"); !ok || idx != 1 {
		t.Fatalf("expected to find room type B")
	}
	if _, ok := h.FindRoomType("C"); ok {
		t.Fatalf("unexpected room type C")
	}
	h.Amenities = []string{"WiFi", "Parking"}
	if !h.HasAmenity("WiFi") || h.HasAmenity("wifi") {
		t.Fatalf("amenity lookup should be exact")
	}
	if !BookingPending.Valid() || BookingStatus("lost").Valid() {
		t.Fatalf("unexpected booking status validity")
	}
}
