package notification

import (
	"context"
	"errors"
	"testing"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	UpsertDeviceTokenFunc       func(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	GetActiveTokensByUserIDFunc func(ctx context.Context, userID int64) ([]*DeviceToken, error)
	DeactivateTokenFunc         func(ctx context.Context, token string) error
	ReassignTokenFunc           func(ctx context.Context, token string, newUserID int64) error
	GetPreferencesFunc          func(ctx context.Context, userID int64) (*NotificationPreference, error)
	UpsertPreferencesFunc       func(ctx context.Context, userID int64, params UpdatePreferenceParams) (*NotificationPreference, error)
	CreateNotificationFunc      func(ctx context.Context, params CreateNotificationParams) (*Notification, error)
	ListByUserIDFunc            func(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error)
	MarkOpenedFunc              func(ctx context.Context, notificationID string, userID int64) error
}

func (m *MockRepository) UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if m.UpsertDeviceTokenFunc != nil {
		return m.UpsertDeviceTokenFunc(ctx, params)
	}
	return &DeviceToken{Token: params.Token, UserID: params.UserID}, nil
}

func (m *MockRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*DeviceToken, error) {
	if m.GetActiveTokensByUserIDFunc != nil {
		return m.GetActiveTokensByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) DeactivateToken(ctx context.Context, token string) error {
	if m.DeactivateTokenFunc != nil {
		return m.DeactivateTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockRepository) ReassignToken(ctx context.Context, token string, newUserID int64) error {
	if m.ReassignTokenFunc != nil {
		return m.ReassignTokenFunc(ctx, token, newUserID)
	}
	return nil
}

func (m *MockRepository) GetPreferences(ctx context.Context, userID int64) (*NotificationPreference, error) {
	if m.GetPreferencesFunc != nil {
		return m.GetPreferencesFunc(ctx, userID)
	}
	return nil, ErrPreferencesNotFound
}

func (m *MockRepository) UpsertPreferences(ctx context.Context, userID int64, params UpdatePreferenceParams) (*NotificationPreference, error) {
	if m.UpsertPreferencesFunc != nil {
		return m.UpsertPreferencesFunc(ctx, userID, params)
	}
	return &NotificationPreference{UserID: userID}, nil
}

func (m *MockRepository) CreateNotification(ctx context.Context, params CreateNotificationParams) (*Notification, error) {
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(ctx, params)
	}
	return &Notification{UserID: params.UserID, Title: params.Title}, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, perPage)
	}
	return nil, 0, nil
}

func (m *MockRepository) MarkOpened(ctx context.Context, notificationID string, userID int64) error {
	if m.MarkOpenedFunc != nil {
		return m.MarkOpenedFunc(ctx, notificationID, userID)
	}
	return nil
}

// MockMessenger records push deliveries
type MockMessenger struct {
	sent     [][]string
	lastData map[string]string
	failWith error
}

func (m *MockMessenger) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, []string{token})
	m.lastData = data
	return nil
}

func (m *MockMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, tokens)
	m.lastData = data
	return nil
}

func activeToken(token string) []*DeviceToken {
	return []*DeviceToken{{Token: token, IsActive: true}}
}

func TestRegisterDevice(t *testing.T) {
	prefsCreated := false
	repo := &MockRepository{
		UpsertPreferencesFunc: func(ctx context.Context, userID int64, params UpdatePreferenceParams) (*NotificationPreference, error) {
			prefsCreated = true
			return &NotificationPreference{UserID: userID}, nil
		},
	}
	svc := NewService(repo, nil)

	tok, err := svc.RegisterDevice(context.Background(), CreateDeviceTokenParams{
		UserID:     1,
		Token:      "fcm-token-abc",
		DeviceType: "android",
	})
	if err != nil {
		t.Fatalf("RegisterDevice() failed: %v", err)
	}
	if tok.Token != "fcm-token-abc" {
		t.Errorf("token = %q, want %q", tok.Token, "fcm-token-abc")
	}
	if !prefsCreated {
		t.Error("RegisterDevice() did not create default preferences")
	}
}

func TestRegisterDevice_Validation(t *testing.T) {
	svc := NewService(&MockRepository{}, nil)

	tests := []struct {
		name    string
		params  CreateDeviceTokenParams
		wantErr error
	}{
		{"empty token", CreateDeviceTokenParams{UserID: 1, DeviceType: "ios"}, ErrInvalidToken},
		{"bad device type", CreateDeviceTokenParams{UserID: 1, Token: "t", DeviceType: "windows"}, ErrInvalidDeviceType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterDevice(context.Background(), tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RegisterDevice() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPreferences_DefaultsWhenMissing(t *testing.T) {
	svc := NewService(&MockRepository{}, nil)

	prefs, err := svc.GetPreferences(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPreferences() failed: %v", err)
	}
	for _, category := range []string{CategoryBills, CategoryBudgets, CategoryGeneral, CategoryGoals, CategoryTransactions} {
		if !prefs.IsCategoryEnabled(category) {
			t.Errorf("default preferences disable %q, want enabled", category)
		}
	}
}

func TestNotify_DeliversWithTag(t *testing.T) {
	var stored *CreateNotificationParams
	repo := &MockRepository{
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return activeToken("tok-1"), nil
		},
		CreateNotificationFunc: func(ctx context.Context, params CreateNotificationParams) (*Notification, error) {
			stored = &params
			return &Notification{}, nil
		},
	}
	messenger := &MockMessenger{}
	svc := NewService(repo, messenger)

	err := svc.Notify(context.Background(), 1, CategoryBills, "Bill due today", "Rent - $1200 is due today", "bill-due-Rent")
	if err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	if len(messenger.sent) != 1 {
		t.Fatalf("got %d pushes, want 1", len(messenger.sent))
	}
	if messenger.lastData["tag"] != "bill-due-Rent" {
		t.Errorf("data[tag] = %q, want %q", messenger.lastData["tag"], "bill-due-Rent")
	}
	if stored == nil {
		t.Fatal("Notify() did not store a notification record")
	}
	if stored.Category != CategoryBills {
		t.Errorf("stored category = %q, want %q", stored.Category, CategoryBills)
	}
}

func TestNotify_RespectsDisabledCategory(t *testing.T) {
	repo := &MockRepository{
		GetPreferencesFunc: func(ctx context.Context, userID int64) (*NotificationPreference, error) {
			return &NotificationPreference{UserID: userID, BillsEnabled: false, GoalsEnabled: true}, nil
		},
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return activeToken("tok-1"), nil
		},
	}
	messenger := &MockMessenger{}
	svc := NewService(repo, messenger)

	if err := svc.Notify(context.Background(), 1, CategoryBills, "t", "b", ""); err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}
	if len(messenger.sent) != 0 {
		t.Error("Notify() pushed despite the category being disabled")
	}
}

func TestNotify_NoMessengerIsNoOp(t *testing.T) {
	stored := 0
	repo := &MockRepository{
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return activeToken("tok-1"), nil
		},
		CreateNotificationFunc: func(ctx context.Context, params CreateNotificationParams) (*Notification, error) {
			stored++
			return &Notification{}, nil
		},
	}
	svc := NewService(repo, nil)

	if err := svc.Notify(context.Background(), 1, CategoryGoals, "t", "b", "goal-progress-Vacation"); err != nil {
		t.Fatalf("Notify() failed without a messenger: %v", err)
	}
	if stored != 1 {
		t.Errorf("stored %d records without a messenger, want 1", stored)
	}
}

func TestNotify_PushFailureDoesNotSurface(t *testing.T) {
	repo := &MockRepository{
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return activeToken("tok-1"), nil
		},
	}
	messenger := &MockMessenger{failWith: errors.New("fcm unavailable")}
	svc := NewService(repo, messenger)

	if err := svc.Notify(context.Background(), 1, CategoryGeneral, "t", "b", ""); err != nil {
		t.Errorf("Notify() surfaced a delivery failure: %v", err)
	}
}

func TestSendToUser_InvalidCategory(t *testing.T) {
	svc := NewService(&MockRepository{}, nil)

	err := svc.SendToUser(context.Background(), 1, "t", "b", "stocks", nil)
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("SendToUser() error = %v, want ErrInvalidCategory", err)
	}
}
