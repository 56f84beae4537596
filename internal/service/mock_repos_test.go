package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rkive250/MedNotify/internal/model"
	"github.com/rkive250/MedNotify/internal/repository"
	"github.com/rkive250/MedNotify/pkg/push"
)

// ── Mock RecordRepository ──

type mockRecordRepo[T any, P repository.RecordPtr[T]] struct {
	rows   map[int64]*T
	nextID int64
}

func newMockRecordRepo[T any, P repository.RecordPtr[T]]() *mockRecordRepo[T, P] {
	return &mockRecordRepo[T, P]{rows: make(map[int64]*T)}
}

func (m *mockRecordRepo[T, P]) put(rec *T) {
	c := *rec
	m.rows[P(rec).Base().ID] = &c
}

func (m *mockRecordRepo[T, P]) Create(_ context.Context, rec *T) error {
	m.nextID++
	P(rec).Base().ID = m.nextID
	m.put(rec)
	return nil
}

func (m *mockRecordRepo[T, P]) Insert(ctx context.Context, rec model.Record) error {
	return m.Create(ctx, (*T)(rec.(P)))
}

func (m *mockRecordRepo[T, P]) GetByID(_ context.Context, id int64) (*T, error) {
	if rec, ok := m.rows[id]; ok {
		c := *rec
		return &c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo[T, P]) Find(ctx context.Context, id int64) (model.Record, error) {
	rec, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return P(rec), nil
}

func (m *mockRecordRepo[T, P]) List(_ context.Context, userID int64, date *time.Time) ([]T, error) {
	var out []T
	for _, rec := range m.rows {
		b := P(rec).Base()
		if b.UserID != userID {
			continue
		}
		if date != nil && b.RecordedOn.Format(model.DateLayout) != date.Format(model.DateLayout) {
			continue
		}
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := P(&out[i]).Base(), P(&out[j]).Base()
		if !a.RecordedOn.Equal(b.RecordedOn) {
			return a.RecordedOn.After(b.RecordedOn)
		}
		if a.RecordedAt != b.RecordedAt {
			return a.RecordedAt > b.RecordedAt
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (m *mockRecordRepo[T, P]) Latest(ctx context.Context, userID int64, date *time.Time) (*T, error) {
	list, _ := m.List(ctx, userID, date)
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &list[0], nil
}

func (m *mockRecordRepo[T, P]) CountByDate(ctx context.Context, userID int64, date time.Time) (int64, error) {
	list, _ := m.List(ctx, userID, &date)
	return int64(len(list)), nil
}

func (m *mockRecordRepo[T, P]) Update(_ context.Context, rec *T) error {
	m.put(rec)
	return nil
}

func (m *mockRecordRepo[T, P]) Save(ctx context.Context, rec model.Record) error {
	return m.Update(ctx, (*T)(rec.(P)))
}

func (m *mockRecordRepo[T, P]) Delete(_ context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *mockRecordRepo[T, P]) DeleteByUser(_ context.Context, userID int64) error {
	for id, rec := range m.rows {
		if P(rec).Base().UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	delete(m.users, id)
	return nil
}

// ── Mock DeviceTokenRepository ──

type mockDeviceTokenRepo struct {
	owner  map[string]int64
	ids    map[string]int64
	nextID int64
}

func newMockDeviceTokenRepo() *mockDeviceTokenRepo {
	return &mockDeviceTokenRepo{owner: make(map[string]int64), ids: make(map[string]int64)}
}

func (m *mockDeviceTokenRepo) Save(_ context.Context, userID int64, token string) error {
	if _, ok := m.ids[token]; !ok {
		m.nextID++
		m.ids[token] = m.nextID
	}
	m.owner[token] = userID
	return nil
}

func (m *mockDeviceTokenRepo) ListByUser(_ context.Context, userID int64) ([]model.DeviceToken, error) {
	var out []model.DeviceToken
	for tok, uid := range m.owner {
		if uid == userID {
			out = append(out, model.DeviceToken{ID: m.ids[tok], UserID: uid, Token: tok})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDeviceTokenRepo) DeleteToken(_ context.Context, token string) error {
	delete(m.owner, token)
	return nil
}

func (m *mockDeviceTokenRepo) DeleteForUser(_ context.Context, userID int64, token string) error {
	if m.owner[token] == userID {
		delete(m.owner, token)
	}
	return nil
}

func (m *mockDeviceTokenRepo) DeleteByUser(_ context.Context, userID int64) error {
	for tok, uid := range m.owner {
		if uid == userID {
			delete(m.owner, tok)
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	rows      map[int64]*model.Notification
	nextID    int64
	createErr error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{rows: make(map[int64]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	if n.DeleteRequestID != nil {
		for _, row := range m.rows {
			if row.DeleteRequestID != nil && *row.DeleteRequestID == *n.DeleteRequestID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	m.nextID++
	n.ID = m.nextID
	c := *n
	m.rows[n.ID] = &c
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID int64) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockNotificationRepo) GetPendingForUpdate(_ context.Context, userID int64, requestID string) (*model.Notification, error) {
	for _, n := range m.rows {
		if n.UserID == userID && n.DeleteRequestID != nil && *n.DeleteRequestID == requestID {
			c := *n
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) Delete(_ context.Context, id int64) error {
	delete(m.rows, id)
	return nil
}

func (m *mockNotificationRepo) DeleteByUser(_ context.Context, userID int64) error {
	for id, n := range m.rows {
		if n.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

// forUser returns userID's notifications, oldest first.
func (m *mockNotificationRepo) forUser(userID int64) []model.Notification {
	list, _ := m.ListByUser(context.Background(), userID)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ── Fake push transport ──

type sentPush struct {
	token string
	msg   push.Message
}

type fakeTransport struct {
	results map[string]push.Result // per token; missing means Delivered
	sent    []sentPush
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{results: make(map[string]push.Result)}
}

func (f *fakeTransport) Send(_ context.Context, token string, msg push.Message) (push.Result, error) {
	f.sent = append(f.sent, sentPush{token: token, msg: msg})
	if r, ok := f.results[token]; ok {
		if r != push.Delivered {
			return r, push.ErrDisabled
		}
		return r, nil
	}
	return push.Delivered, nil
}

// titles returns the titles of every push sent, in order.
func (f *fakeTransport) titles() []string {
	var out []string
	for _, s := range f.sent {
		out = append(out, s.msg.Title)
	}
	return out
}

// ── Test environment ──

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

type testEnv struct {
	repo      *repository.Repository
	users     *mockUserRepo
	tokens    *mockDeviceTokenRepo
	notifs    *mockNotificationRepo
	glucose   *mockRecordRepo[model.Glucose, *model.Glucose]
	pressure  *mockRecordRepo[model.BloodPressure, *model.BloodPressure]
	oxygen    *mockRecordRepo[model.Oxygenation, *model.Oxygenation]
	heart     *mockRecordRepo[model.HeartRate, *model.HeartRate]
	meds      *mockRecordRepo[model.Medication, *model.Medication]
	transport *fakeTransport
	notifier  Notifier
	clock     *fakeClock
	logger    *zap.Logger
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:     newMockUserRepo(),
		tokens:    newMockDeviceTokenRepo(),
		notifs:    newMockNotificationRepo(),
		glucose:   newMockRecordRepo[model.Glucose](),
		pressure:  newMockRecordRepo[model.BloodPressure](),
		oxygen:    newMockRecordRepo[model.Oxygenation](),
		heart:     newMockRecordRepo[model.HeartRate](),
		meds:      newMockRecordRepo[model.Medication](),
		transport: newFakeTransport(),
		clock:     &fakeClock{t: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)},
		logger:    zap.NewNop(),
	}
	env.repo = &repository.Repository{
		User:          env.users,
		DeviceToken:   env.tokens,
		Notification:  env.notifs,
		Glucose:       env.glucose,
		BloodPressure: env.pressure,
		Oxygenation:   env.oxygen,
		HeartRate:     env.heart,
		Medication:    env.meds,
	}
	env.notifier = NewNotifier(env.repo, env.transport, env.logger)
	return env
}

// addUser creates a user with password and one device token.
func (e *testEnv) addUser(email, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{Name: "Prueba", Email: email, PasswordHash: string(hash)}
	_ = e.users.Create(context.Background(), u)
	_ = e.tokens.Save(context.Background(), u.ID, "device-"+email)
	return u
}

func mustDay(s string) time.Time {
	d, _ := time.Parse(model.DateLayout, s)
	return d
}

func recBase(userID int64, date, clock string) model.RecordBase {
	return model.RecordBase{UserID: userID, RecordedOn: mustDay(date), RecordedAt: clock}
}
