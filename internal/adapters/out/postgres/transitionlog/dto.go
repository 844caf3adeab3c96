// Package transitionlog persists the append-only transition log shared by
// order and item aggregates. Both repositories write through this package so
// the log lives in a single table and the append-only rule is enforced in
// one place: rows are only ever inserted, never updated or deleted.
package transitionlog

import (
	"context"
	"encoding/json"
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransitionDTO represents one row of the transitions table. Metadata is
// stored as JSONB so trigger context survives round trips without schema
// churn.
type TransitionDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SubjectID   uuid.UUID      `gorm:"type:uuid;index:idx_transitions_subject"`
	SubjectKind string         `gorm:"type:varchar(16);index:idx_transitions_subject"`
	Event       string         `gorm:"type:varchar(64)"`
	ToState     string         `gorm:"type:varchar(64)"`
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"index"`
}

// TableName specifies the database table name for transition records.
func (TransitionDTO) TableName() string {
	return "transitions"
}

func fromDomain(t statemachine.Transition) (TransitionDTO, error) {
	md, err := json.Marshal(t.Metadata)
	if err != nil {
		return TransitionDTO{}, err
	}

	return TransitionDTO{
		ID:          t.ID.Bytes(),
		SubjectID:   t.SubjectID.Bytes(),
		SubjectKind: string(t.SubjectKind),
		Event:       string(t.Event),
		ToState:     string(t.ToState),
		Metadata:    datatypes.JSON(md),
		CreatedAt:   t.CreatedAt,
	}, nil
}

func toDomain(dto TransitionDTO) (statemachine.Transition, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return statemachine.Transition{}, err
	}

	subjectID, err := kernel.UUIDFromBytes(dto.SubjectID[:])
	if err != nil {
		return statemachine.Transition{}, err
	}

	var md statemachine.Metadata
	if len(dto.Metadata) > 0 {
		if err := json.Unmarshal(dto.Metadata, &md); err != nil {
			return statemachine.Transition{}, err
		}
	}

	return statemachine.Transition{
		ID:          id,
		SubjectID:   subjectID,
		SubjectKind: statemachine.Kind(dto.SubjectKind),
		Event:       statemachine.Event(dto.Event),
		ToState:     statemachine.State(dto.ToState),
		Metadata:    md,
		CreatedAt:   dto.CreatedAt,
	}, nil
}

// Append inserts the given transitions. Callers pass only the uncommitted
// tail of an aggregate's history; existing rows are never touched.
func Append(ctx context.Context, db *gorm.DB, transitions []statemachine.Transition) error {
	if len(transitions) == 0 {
		return nil
	}

	dtos := make([]TransitionDTO, 0, len(transitions))
	for _, t := range transitions {
		dto, err := fromDomain(t)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	return db.WithContext(ctx).Create(&dtos).Error
}

// LoadForSubject retrieves the full transition history of one subject in
// chronological order.
func LoadForSubject(ctx context.Context, db *gorm.DB, kind statemachine.Kind, subjectID kernel.UUID) ([]statemachine.Transition, error) {
	histories, err := LoadForSubjects(ctx, db, kind, []kernel.UUID{subjectID})
	if err != nil {
		return nil, err
	}
	return histories[subjectID.String()], nil
}

// LoadForSubjects retrieves transition histories for many subjects of the
// same kind in one query, keyed by subject ID string.
func LoadForSubjects(ctx context.Context, db *gorm.DB, kind statemachine.Kind, subjectIDs []kernel.UUID) (map[string][]statemachine.Transition, error) {
	histories := make(map[string][]statemachine.Transition, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return histories, nil
	}

	ids := make([]uuid.UUID, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		ids = append(ids, id.Bytes())
	}

	var dtos []TransitionDTO
	err := db.WithContext(ctx).
		Where("subject_kind = ? AND subject_id IN ?", string(kind), ids).
		Order("created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		key := t.SubjectID.String()
		histories[key] = append(histories[key], t)
	}

	return histories, nil
}
