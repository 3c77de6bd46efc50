package goal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newGoal(current, target string) *Goal {
	return &Goal{
		Name:          "Emergency fund",
		CurrentAmount: decimal.RequireFromString(current),
		TargetAmount:  decimal.RequireFromString(target),
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    float64
	}{
		{"empty goal", "0", "5000", 0},
		{"partial", "3500", "5000", 70},
		{"complete", "5000", "5000", 100},
		{"quarter", "25", "100", 25},
		{"zero target treated as not configured", "100", "0", 0},
		{"negative target treated as not configured", "100", "-10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGoal(tt.current, tt.target)
			got := g.Progress()
			if got != tt.want {
				t.Errorf("Progress() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestProgress_AlwaysInRange(t *testing.T) {
	// Progress must stay in [0, 100] even if stored data exceeds the target
	g := newGoal("9999", "100")
	if got := g.Progress(); got != 100 {
		t.Errorf("Progress() = %f, want 100 (clamped)", got)
	}
}

func TestProgress_MonotonicInCurrentAmount(t *testing.T) {
	target := decimal.NewFromInt(1000)
	prev := -1.0
	for current := int64(0); current <= 1200; current += 100 {
		g := &Goal{CurrentAmount: decimal.NewFromInt(current), TargetAmount: target}
		got := g.Progress()
		if got < prev {
			t.Fatalf("Progress() decreased from %f to %f at current=%d", prev, got, current)
		}
		if got < 0 || got > 100 {
			t.Fatalf("Progress() = %f out of [0,100] at current=%d", got, current)
		}
		prev = got
	}
}

func TestIsCompleted(t *testing.T) {
	if newGoal("4999.99", "5000").IsCompleted() {
		t.Error("IsCompleted() = true below target")
	}
	if !newGoal("5000", "5000").IsCompleted() {
		t.Error("IsCompleted() = false at target")
	}
	if newGoal("0", "0").IsCompleted() {
		t.Error("IsCompleted() = true for zero-target goal")
	}
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"same instant", now, 0},
		{"tomorrow", now.Add(24 * time.Hour), 1},
		{"half a day away rounds up", now.Add(12 * time.Hour), 1},
		{"ten days", now.Add(240 * time.Hour), 10},
		{"yesterday", now.Add(-24 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{Deadline: tt.deadline}
			if got := g.DaysRemaining(now); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCreateParams_Validate(t *testing.T) {
	valid := CreateParams{
		UserID:       1,
		Name:         "Trip",
		TargetAmount: decimal.NewFromInt(3000),
		Deadline:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr bool
	}{
		{"valid", func(p *CreateParams) {}, false},
		{"missing user", func(p *CreateParams) { p.UserID = 0 }, true},
		{"missing name", func(p *CreateParams) { p.Name = "" }, true},
		{"zero target", func(p *CreateParams) { p.TargetAmount = decimal.Zero }, true},
		{"negative target", func(p *CreateParams) { p.TargetAmount = decimal.NewFromInt(-1) }, true},
		{"missing deadline", func(p *CreateParams) { p.Deadline = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)
			err := params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMilestoneCrossed(t *testing.T) {
	tests := []struct {
		name   string
		before float64
		after  float64
		want   int
	}{
		{"no movement", 10, 10, 0},
		{"below first tier", 5, 20, 0},
		{"crosses 25", 20, 30, 25},
		{"crosses 50", 40, 60, 50},
		{"crosses several tiers reports highest", 10, 80, 75},
		{"reaches 100", 90, 100, 100},
		{"already at tier", 50, 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MilestoneCrossed(tt.before, tt.after); got != tt.want {
				t.Errorf("MilestoneCrossed(%f, %f) = %d, want %d", tt.before, tt.after, got, tt.want)
			}
		})
	}
}
