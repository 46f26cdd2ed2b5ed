// Package memory provides an in-memory implementation of the marketplace
// persistence store used for tests and ephemeral environments.
package memory

import (
	"affordhostel/pkg/domain"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time contract assertions ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Hostel aliases domain.Hostel for in-memory persistence operations.
	Hostel = domain.Hostel
	// Booking aliases domain.Booking.
	Booking = domain.Booking
	// Review aliases domain.Review.
	Review = domain.Review
	// Notification aliases domain.Notification.
	Notification = domain.Notification
	// WishlistItem aliases domain.WishlistItem.
	WishlistItem = domain.WishlistItem
	// VerificationReport aliases domain.VerificationReport.
	VerificationReport = domain.VerificationReport
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// table keeps rows keyed by id while remembering insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]T)}
}

func (t table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) {
	if _, exists := t.rows[id]; !exists {
		return
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
}

func (t table[T]) len() int { return len(t.order) }

func (t table[T]) list(cp func(T) T) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, cp(t.rows[id]))
	}
	return out
}

func (t table[T]) clone(cp func(T) T) table[T] {
	out := table[T]{rows: make(map[string]T, len(t.rows)), order: append([]string(nil), t.order...)}
	for id, v := range t.rows {
		out.rows[id] = cp(v)
	}
	return out
}

type memoryState struct {
	hostels       table[Hostel]
	bookings      table[Booking]
	reviews       table[Review]
	notifications table[Notification]
	wishlist      table[WishlistItem]
	reports       table[VerificationReport]
}

func newMemoryState() memoryState {
	return memoryState{
		hostels:       newTable[Hostel](),
		bookings:      newTable[Booking](),
		reviews:       newTable[Review](),
		notifications: newTable[Notification](),
		wishlist:      newTable[WishlistItem](),
		reports:       newTable[VerificationReport](),
	}
}

func (s memoryState) clone() memoryState {
	return memoryState{
		hostels:       s.hostels.clone(cloneHostel),
		bookings:      s.bookings.clone(cloneBooking),
		reviews:       s.reviews.clone(cloneReview),
		notifications: s.notifications.clone(cloneNotification),
		wishlist:      s.wishlist.clone(cloneWishlistItem),
		reports:       s.reports.clone(cloneReport),
	}
}

func cloneHostel(h Hostel) Hostel {
	cp := h
	cp.Images = cloneStrings(h.Images)
	cp.Amenities = cloneStrings(h.Amenities)
	if h.RoomTypes != nil {
		cp.RoomTypes = make([]domain.RoomType, len(h.RoomTypes))
		for i, rt := range h.RoomTypes {
			rt.Features = cloneStrings(rt.Features)
			cp.RoomTypes[i] = rt
		}
	}
	if h.AssignedAgentID != nil {
		agent := *h.AssignedAgentID
		cp.AssignedAgentID = &agent
	}
	return cp
}

func cloneBooking(b Booking) Booking                { return b }
func cloneReview(r Review) Review                   { return r }
func cloneNotification(n Notification) Notification { return n }
func cloneWishlistItem(w WishlistItem) WishlistItem { return w }

func cloneReport(r VerificationReport) VerificationReport {
	cp := r
	cp.Photos = cloneStrings(r.Photos)
	return cp
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

// Store provides an in-memory transactional store for the marketplace domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	return uuid.NewString()
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(normalizeSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc replaces the time provider, letting callers share one clock.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

func (v transactionView) ListHostels() []Hostel {
	return v.state.hostels.list(cloneHostel)
}

func (v transactionView) ListBookings() []Booking {
	return v.state.bookings.list(cloneBooking)
}

func (v transactionView) ListReviews() []Review {
	return v.state.reviews.list(cloneReview)
}

func (v transactionView) ListWishlistItems() []WishlistItem {
	return v.state.wishlist.list(cloneWishlistItem)
}

func (v transactionView) ListNotifications() []Notification {
	return v.state.notifications.list(cloneNotification)
}

func (v transactionView) ListVerificationReports() []VerificationReport {
	return v.state.reports.list(cloneReport)
}

func (v transactionView) FindHostel(id string) (Hostel, bool) {
	h, ok := v.state.hostels.get(id)
	if !ok {
		return Hostel{}, false
	}
	return cloneHostel(h), true
}

func (v transactionView) FindBooking(id string) (Booking, bool) {
	b, ok := v.state.bookings.get(id)
	return cloneBooking(b), ok
}

// RunInTransaction executes fn within a transactional copy of the store state.
// A cancelled context aborts before commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// FindHostel exposes hostel lookup within the transaction scope.
func (tx *transaction) FindHostel(id string) (Hostel, bool) {
	return newTransactionView(&tx.state).FindHostel(id)
}

// FindBooking exposes booking lookup within the transaction scope.
func (tx *transaction) FindBooking(id string) (Booking, bool) {
	return newTransactionView(&tx.state).FindBooking(id)
}

func notFound(entity domain.EntityType, id string) error {
	return domain.NotFoundError{Entity: entity, ID: id}
}

// CreateHostel stores a new hostel within the transaction.
func (tx *transaction) CreateHostel(h Hostel) (Hostel, error) {
	if h.ID == "" {
		h.ID = tx.store.newID()
	}
	if _, exists := tx.state.hostels.get(h.ID); exists {
		return Hostel{}, fmt.Errorf("hostel %q already exists", h.ID)
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = tx.now
	}
	h.UpdatedAt = tx.now
	tx.state.hostels.put(h.ID, cloneHostel(h))
	tx.recordChange(Change{Entity: domain.EntityHostel, Action: domain.ActionCreate, After: cloneHostel(h)})
	return cloneHostel(h), nil
}

// UpdateHostel mutates a hostel using the provided mutator function.
func (tx *transaction) UpdateHostel(id string, mutator func(*Hostel) error) (Hostel, error) {
	current, ok := tx.state.hostels.get(id)
	if !ok {
		return Hostel{}, notFound(domain.EntityHostel, id)
	}
	before := cloneHostel(current)
	current = cloneHostel(current)
	if err := mutator(&current); err != nil {
		return Hostel{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.hostels.put(id, cloneHostel(current))
	tx.recordChange(Change{Entity: domain.EntityHostel, Action: domain.ActionUpdate, Before: before, After: cloneHostel(current)})
	return cloneHostel(current), nil
}

// CreateBooking stores a new booking.
func (tx *transaction) CreateBooking(b Booking) (Booking, error) {
	if b.ID == "" {
		b.ID = tx.store.newID()
	}
	if _, exists := tx.state.bookings.get(b.ID); exists {
		return Booking{}, fmt.Errorf("booking %q already exists", b.ID)
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = tx.now
	}
	b.UpdatedAt = tx.now
	tx.state.bookings.put(b.ID, b)
	tx.recordChange(Change{Entity: domain.EntityBooking, Action: domain.ActionCreate, After: b})
	return b, nil
}

// UpdateBooking mutates an existing booking.
func (tx *transaction) UpdateBooking(id string, mutator func(*Booking) error) (Booking, error) {
	current, ok := tx.state.bookings.get(id)
	if !ok {
		return Booking{}, notFound(domain.EntityBooking, id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return Booking{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.bookings.put(id, current)
	tx.recordChange(Change{Entity: domain.EntityBooking, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteBooking removes a booking from state.
func (tx *transaction) DeleteBooking(id string) error {
	current, ok := tx.state.bookings.get(id)
	if !ok {
		return notFound(domain.EntityBooking, id)
	}
	tx.state.bookings.remove(id)
	tx.recordChange(Change{Entity: domain.EntityBooking, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateReview appends a review.
func (tx *transaction) CreateReview(r Review) (Review, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.reviews.get(r.ID); exists {
		return Review{}, fmt.Errorf("review %q already exists", r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = tx.now
	}
	r.UpdatedAt = tx.now
	tx.state.reviews.put(r.ID, r)
	tx.recordChange(Change{Entity: domain.EntityReview, Action: domain.ActionCreate, After: r})
	return r, nil
}

// UpdateReview mutates an existing review.
func (tx *transaction) UpdateReview(id string, mutator func(*Review) error) (Review, error) {
	current, ok := tx.state.reviews.get(id)
	if !ok {
		return Review{}, notFound(domain.EntityReview, id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return Review{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.reviews.put(id, current)
	tx.recordChange(Change{Entity: domain.EntityReview, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// CreateNotification appends a notification.
func (tx *transaction) CreateNotification(n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = tx.store.newID()
	}
	if _, exists := tx.state.notifications.get(n.ID); exists {
		return Notification{}, fmt.Errorf("notification %q already exists", n.ID)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = tx.now
	}
	n.UpdatedAt = tx.now
	tx.state.notifications.put(n.ID, n)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionCreate, After: n})
	return n, nil
}

// UpdateNotification mutates an existing notification.
func (tx *transaction) UpdateNotification(id string, mutator func(*Notification) error) (Notification, error) {
	current, ok := tx.state.notifications.get(id)
	if !ok {
		return Notification{}, notFound(domain.EntityNotification, id)
	}
	before := current
	if err := mutator(&current); err != nil {
		return Notification{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.notifications.put(id, current)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteNotification removes a notification.
func (tx *transaction) DeleteNotification(id string) error {
	current, ok := tx.state.notifications.get(id)
	if !ok {
		return notFound(domain.EntityNotification, id)
	}
	tx.state.notifications.remove(id)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateWishlistItem records a saved hostel. A user can save a hostel once.
func (tx *transaction) CreateWishlistItem(w WishlistItem) (WishlistItem, error) {
	if w.ID == "" {
		w.ID = tx.store.newID()
	}
	if _, exists := tx.state.wishlist.get(w.ID); exists {
		return WishlistItem{}, fmt.Errorf("wishlist item %q already exists", w.ID)
	}
	for _, existing := range tx.state.wishlist.rows {
		if existing.UserID == w.UserID && existing.HostelID == w.HostelID {
			return WishlistItem{}, fmt.Errorf("hostel %q already in wishlist of user %q", w.HostelID, w.UserID)
		}
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = tx.now
	}
	w.UpdatedAt = tx.now
	tx.state.wishlist.put(w.ID, w)
	tx.recordChange(Change{Entity: domain.EntityWishlistItem, Action: domain.ActionCreate, After: w})
	return w, nil
}

// DeleteWishlistItem removes a saved hostel.
func (tx *transaction) DeleteWishlistItem(id string) error {
	current, ok := tx.state.wishlist.get(id)
	if !ok {
		return notFound(domain.EntityWishlistItem, id)
	}
	tx.state.wishlist.remove(id)
	tx.recordChange(Change{Entity: domain.EntityWishlistItem, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateVerificationReport appends an agent report.
func (tx *transaction) CreateVerificationReport(r VerificationReport) (VerificationReport, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.reports.get(r.ID); exists {
		return VerificationReport{}, fmt.Errorf("verification report %q already exists", r.ID)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = tx.now
	}
	r.UpdatedAt = tx.now
	tx.state.reports.put(r.ID, cloneReport(r))
	tx.recordChange(Change{Entity: domain.EntityVerificationReport, Action: domain.ActionCreate, After: cloneReport(r)})
	return cloneReport(r), nil
}

// Read helpers ---------------------------------------------------------------

// GetHostel retrieves a hostel by ID from committed state.
func (s *Store) GetHostel(id string) (Hostel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.state.hostels.get(id)
	if !ok {
		return Hostel{}, false
	}
	return cloneHostel(h), true
}

// ListHostels returns all hostels from committed state.
func (s *Store) ListHostels() []Hostel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.hostels.list(cloneHostel)
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(id string) (Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.bookings.get(id)
}

// ListBookings returns all bookings.
func (s *Store) ListBookings() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.bookings.list(cloneBooking)
}

// ListReviews returns all reviews.
func (s *Store) ListReviews() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.reviews.list(cloneReview)
}

// ListNotifications returns all notifications.
func (s *Store) ListNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.notifications.list(cloneNotification)
}

// ListWishlistItems returns all wishlist entries.
func (s *Store) ListWishlistItems() []WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.wishlist.list(cloneWishlistItem)
}

// ListVerificationReports returns all agent reports.
func (s *Store) ListVerificationReports() []VerificationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.reports.list(cloneReport)
}

// Empty reports whether the store holds no hostels.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.hostels.len() == 0
}
