package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tasktally/tasktally/internal/models"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed int
		total     int
		want      int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{3, 4, 75},
		{2, 3, 66},
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestDateKey(t *testing.T) {
	at := time.Date(2026, time.March, 21, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "21-03-2026 (Saturday)", DateKey(at))
	assert.Equal(t, "22-03-2026 (Sunday)", DateKey(at.Add(time.Minute)))
}

func TestTaskField(t *testing.T) {
	rec := models.TaskRecord{
		Name:          "write report",
		Priority:      "High",
		Description:   "quarterly numbers",
		EstimatedTime: "2 hours",
	}

	f := taskField(0, rec)
	assert.Equal(t, "📌 **Task 1: write report**  |  🏷 **Priority:** High", f.Name)
	assert.Equal(t, "📖 **Description:**\nquarterly numbers\n\n⏳ **Estimated Time:** 2 hours\n────────────", f.Value)

	rec.Completed = true
	f = taskField(1, rec)
	assert.Equal(t, "📌 **Task 2: write report**  |  🏷 **Priority:** High ✅", f.Name)
}

func TestProgressEmbedFooter(t *testing.T) {
	records := []models.TaskRecord{
		{Name: "a", Completed: true},
		{Name: "b"},
		{Name: "c"},
	}

	embed := progressEmbed("user-1", "21-03-2026 (Saturday)", records)
	assert.Equal(t, "📅 Tasks for 21-03-2026 (Saturday)", embed.Title)
	assert.Equal(t, embedColor, embed.Color)
	if assert.NotNil(t, embed.Footer) {
		assert.Equal(t, "Completion: 33% ✅", embed.Footer.Text)
	}
}
