package services

import (
	"context"
	"fmt"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
)

const defaultEventColor = "#6c757d"

// CalendarEvents - плановые заявки как события: начало и конец совпадают с плановой датой,
// цвет берётся у стадии.
func (s *RequestService) CalendarEvents(ctx context.Context, from, to *time.Time) ([]dto.CalendarEventDTO, error) {
	items, err := s.requestRepo.ListScheduled(ctx, from, to)
	if err != nil {
		return nil, err
	}
	stages, err := s.stageRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*entities.Stage, len(stages))
	for i := range stages {
		byID[stages[i].ID] = &stages[i]
	}

	now := s.clock.Now()
	events := make([]dto.CalendarEventDTO, 0, len(items))
	for i := range items {
		req := &items[i].MaintenanceRequest
		stage := byID[req.StageID]

		color := defaultEventColor
		if stage != nil && stage.Color != "" {
			color = stage.Color
		}
		at := req.ScheduledDate.UTC().Format(time.RFC3339)
		events = append(events, dto.CalendarEventDTO{
			ID:    req.ID,
			Title: fmt.Sprintf("%s: %s", req.Reference, req.Name),
			Start: at,
			End:   at,
			Color: color,
			ExtendedProps: dto.CalendarEventProps{
				Reference: req.Reference,
				Equipment: items[i].EquipmentName,
				Team:      items[i].TeamName,
				Priority:  req.Priority,
				IsOverdue: req.IsOverdue(stage, now),
			},
		})
	}
	return events, nil
}
