package messages

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type MessageText struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Messages holds the user-facing notification copy. Body strings are format
// templates filled in by the services that send them.
type Messages struct {
	BillDueTomorrow MessageText `json:"bill_due_tomorrow"`
	BillDueToday    MessageText `json:"bill_due_today"`
	GoalMilestone   MessageText `json:"goal_milestone"`
	GoalCompleted   MessageText `json:"goal_completed"`
	BudgetWarning   MessageText `json:"budget_warning"`
	BudgetCritical  MessageText `json:"budget_critical"`
}

// Default returns the built-in notification copy.
func Default() *Messages {
	return &Messages{
		BillDueTomorrow: MessageText{
			Title: "Reminder: bill due tomorrow",
			Body:  "%s - %s is due tomorrow",
		},
		BillDueToday: MessageText{
			Title: "Bill due today",
			Body:  "%s - %s is due today",
		},
		GoalMilestone: MessageText{
			Title: "Goal progress",
			Body:  "%s is %d%% complete",
		},
		GoalCompleted: MessageText{
			Title: "Goal reached!",
			Body:  "Congratulations! You reached your goal: %s",
		},
		BudgetWarning: MessageText{
			Title: "Budget warning",
			Body:  "You have spent %d%% of your %s budget",
		},
		BudgetCritical: MessageText{
			Title: "Budget alert!",
			Body:  "You have spent %d%% of your %s budget",
		},
	}
}

var (
	loaded   Messages
	loadOnce sync.Once
	loadErr  error
)

// Load reads the notification copy JSON file and caches the result.
// Safe to call from multiple goroutines.
func Load(path string) (*Messages, error) {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read messages file: %w", err)
			return
		}
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to parse messages file: %w", err)
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return &loaded, nil
}
