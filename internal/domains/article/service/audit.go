package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
)

const (
	sheetWorkflow   = "Workflow"
	sheetModeration = "Moderation"
	timeLayout      = "2006-01-02 15:04:05"
)

// ExportAudit builds an xlsx workbook of the workflow and moderation logs
func (s *ArticleService) ExportAudit(ctx context.Context, p *access.Principal, id uuid.UUID) (*excelize.File, error) {
	if !access.IsEditorOrAbove(p) {
		return nil, deny(p, "Only editors can export audit logs")
	}

	a, err := s.repo.FindByID(ctx, id, access.Filter{})
	if err != nil {
		return nil, err
	}

	f, err := buildAuditFile(a)
	if err != nil {
		return nil, model.NewInternalError("Failed to build audit file", err)
	}
	return f, nil
}

func buildAuditFile(a *model.Article) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		// workbook không trả về thì phải đóng ở đây
		if err != nil {
			if cerr := f.Close(); cerr != nil {
				log.Warn().Err(cerr).Str("article_id", a.ID.String()).Msg("audit workbook close failed")
			}
		}
	}()

	// Sheet 1: workflow transitions (rename default sheet)
	if err := f.SetSheetName("Sheet1", sheetWorkflow); err != nil {
		return nil, err
	}
	workflowRows := make([][]interface{}, 0, a.WorkflowLog.Len())
	for _, e := range a.WorkflowLog.Entries() {
		workflowRows = append(workflowRows, []interface{}{
			e.At.Format(timeLayout), string(e.From), string(e.To), e.By.String(), e.Reason,
		})
	}
	if err := writeSheet(f, sheetWorkflow, []string{"At", "From", "To", "By", "Reason"}, workflowRows); err != nil {
		return nil, err
	}

	// Sheet 2: moderation invocations
	if _, err := f.NewSheet(sheetModeration); err != nil {
		return nil, err
	}
	moderationRows := make([][]interface{}, 0, a.ModerationLog.Len())
	for _, e := range a.ModerationLog.Entries() {
		moderationRows = append(moderationRows, []interface{}{
			e.At.Format(timeLayout), string(e.Action), e.Score, e.By.String(), e.Message,
		})
	}
	if err := writeSheet(f, sheetModeration, []string{"At", "Action", "Score", "By", "Message"}, moderationRows); err != nil {
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}

	// header in bold
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		log.Warn().Err(err).Str("sheet", sheet).Msg("audit header style failed")
	} else {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			log.Warn().Err(err).Str("sheet", sheet).Msg("audit header style failed")
		}
	}

	// data rows start at row 2
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}
