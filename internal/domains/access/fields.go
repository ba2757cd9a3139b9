package access

// Field names guarded by write overlays. Names follow the JSON names of the document.
const (
	FieldStatus           = "status"
	FieldBadges           = "badges"
	FieldHeroImage        = "hero_image"
	FieldWorkflowLog      = "workflow_log"
	FieldCreatedBy        = "created_by"
	FieldUpdatedBy        = "updated_by"
	FieldPublishedDate    = "published_date"
	FieldToxicityScore    = "toxicity_score"
	FieldIsToxic          = "is_toxic"
	FieldModerationStatus = "moderation_status"
	FieldModerationLog    = "moderation_log"
)

// FieldOverlay is an additional write rule for one field. Overlays are plain
// predicates: field access cannot be scoped by a query, so there is no filter form.
type FieldOverlay map[string]Predicate

// ContentFieldOverlay requires editor-or-above for workflow, presentation, audit and moderation fields
func ContentFieldOverlay() FieldOverlay {
	editor := Predicate(IsEditorOrAbove)
	return FieldOverlay{
		FieldStatus:           editor,
		FieldBadges:           editor,
		FieldHeroImage:        editor,
		FieldWorkflowLog:      editor,
		FieldCreatedBy:        editor,
		FieldUpdatedBy:        editor,
		FieldPublishedDate:    editor,
		FieldToxicityScore:    editor,
		FieldIsToxic:          editor,
		FieldModerationStatus: editor,
		FieldModerationLog:    editor,
	}
}

// CanWrite is true when no overlay guards field, or the overlay admits p.
func (o FieldOverlay) CanWrite(p *Principal, field string) bool {
	pred, guarded := o[field]
	if !guarded {
		return true
	}
	return pred(p)
}

// FirstDenied returns the first written field p may not write, or "" if all are allowed.
func (o FieldOverlay) FirstDenied(p *Principal, written []string) string {
	for _, f := range written {
		if !o.CanWrite(p, f) {
			return f
		}
	}
	return ""
}
