package tasks

import (
	"fmt"

	"github.com/tasktally/tasktally/internal/discord"
	"github.com/tasktally/tasktally/internal/models"
)

const embedColor = 0x0059FF

// Percentage returns completed/total as an integer-truncated percent.
// An empty day is 0%.
func Percentage(completed, total int) int {
	if total == 0 {
		return 0
	}
	return completed * 100 / total
}

// taskField renders one task as an embed field. index is the task's
// zero-based position in submission order.
func taskField(index int, t models.TaskRecord) discord.EmbedField {
	check := ""
	if t.Completed {
		check = " ✅"
	}
	return discord.EmbedField{
		Name: fmt.Sprintf("📌 **Task %d: %s**  |  🏷 **Priority:** %s%s", index+1, t.Name, t.Priority, check),
		Value: fmt.Sprintf("📖 **Description:**\n%s\n\n⏳ **Estimated Time:** %s\n────────────",
			t.Description, t.EstimatedTime),
	}
}

// summaryEmbed renders the announcement for a user's day. Fields follow
// submission order; completed tasks carry a checkmark suffix.
func summaryEmbed(userID, dateKey string, records []models.TaskRecord) discord.Embed {
	fields := make([]discord.EmbedField, len(records))
	for i, t := range records {
		fields[i] = taskField(i, t)
	}
	return discord.Embed{
		Title:       "📅 Tasks for " + dateKey,
		Description: fmt.Sprintf("📝 **Tasks added by <@%s>**", userID),
		Color:       embedColor,
		Fields:      fields,
	}
}

// progressEmbed is summaryEmbed plus the completion footer.
func progressEmbed(userID, dateKey string, records []models.TaskRecord) discord.Embed {
	embed := summaryEmbed(userID, dateKey, records)

	completed := 0
	for _, t := range records {
		if t.Completed {
			completed++
		}
	}
	embed.Footer = &discord.EmbedFooter{
		Text: fmt.Sprintf("Completion: %d%% ✅", Percentage(completed, len(records))),
	}
	return embed
}
