package services

import (
	"context"
	"fmt"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/types"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Requests"

var exportHeaders = []interface{}{
	"Reference", "Name", "Stage", "Type", "Priority", "Equipment ID", "Team ID",
	"Requester", "Scheduled", "Deadline", "Completed", "Hours", "Cost", "Overdue", "Created",
}

func exportRow(r dto.RequestResponseDTO) []interface{} {
	return []interface{}{
		r.Reference, r.Name, r.StageName, r.RequestType, r.Priority, r.EquipmentID, derefOrEmpty(r.TeamID),
		r.RequesterEmail, derefOrEmpty(r.ScheduledDate), derefOrEmpty(r.Deadline), derefOrEmpty(r.CompletedDate),
		derefOrEmpty(r.HoursSpent), derefOrEmpty(r.MaintenanceCost), r.IsOverdue, r.CreatedAt,
	}
}

func derefOrEmpty[T any](v *T) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// ExportRequests выгружает отфильтрованный список заявок в xlsx, без пагинации.
func (s *RequestService) ExportRequests(ctx context.Context, filter types.Filter) ([]byte, error) {
	filter.WithPagination = false
	list, _, err := s.ListRequests(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Ошибка закрытия xlsx", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "O1", style); err != nil {
		return nil, err
	}

	for i, item := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := exportRow(item)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("строка %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheet, "B", "B", 40)
	_ = f.SetColWidth(exportSheet, "H", "K", 25)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
