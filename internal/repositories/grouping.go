package repositories

import (
	"sort"

	"github.com/maxlibrach/nanas-table/backend/internal/models"
)

// GroupNotesByMemory groups notes by their owning memory id, each group
// sorted timestamp ascending regardless of fetch order.
func GroupNotesByMemory(notes []models.Note) map[string][]models.Note {
	grouped := make(map[string][]models.Note)
	for _, n := range notes {
		grouped[n.MemoryID] = append(grouped[n.MemoryID], n)
	}
	for id := range grouped {
		group := grouped[id]
		sort.Slice(group, func(i, j int) bool { return group[i].Timestamp < group[j].Timestamp })
	}
	return grouped
}

// GroupMediaByMemory groups media by their owning memory id, each group
// sorted timestamp ascending regardless of fetch order.
func GroupMediaByMemory(media []models.Media) map[string][]models.Media {
	grouped := make(map[string][]models.Media)
	for _, m := range media {
		grouped[m.MemoryID] = append(grouped[m.MemoryID], m)
	}
	for id := range grouped {
		group := grouped[id]
		sort.Slice(group, func(i, j int) bool { return group[i].Timestamp < group[j].Timestamp })
	}
	return grouped
}

// SortCommentsByTimestamp orders comments oldest first.
func SortCommentsByTimestamp(comments []models.Comment) {
	sort.Slice(comments, func(i, j int) bool { return comments[i].Timestamp < comments[j].Timestamp })
}
