package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

// DraftTTL is how long an untouched draft survives.
const DraftTTL = 24 * time.Hour

var draftTarget = regexp.MustCompile(`^(new|new-[0-9]+|m-[0-9]+)$`)

// InterfaceDraftService keeps unsaved maintenance forms per user and target.
type InterfaceDraftService interface {
	Save(ctx context.Context, actor Actor, target string, draft *Draft) (*Draft, error)
	Get(ctx context.Context, actor Actor, target string) (*DraftView, error)
	Discard(ctx context.Context, actor Actor, target string) error
}

// Draft is the form state. Photos are not kept, only how many each item had.
type Draft struct {
	StationID        *uint       `json:"stationId,omitempty"`
	PreventiveNumber string      `json:"preventiveNumber"`
	Date             string      `json:"date"`
	Observations     string      `json:"observations"`
	Items            []DraftItem `json:"items"`
	SavedAt          time.Time   `json:"savedAt"`
}

type DraftItem struct {
	ItemNumber       int               `json:"itemNumber"`
	EquipmentName    string            `json:"equipmentName"`
	Status           models.ItemStatus `json:"status"`
	Value            string            `json:"value,omitempty"`
	CorrectiveAction string            `json:"correctiveAction,omitempty"`
	Observations     string            `json:"observations,omitempty"`
	PhotoCount       int               `json:"photoCount"`
}

// DraftView is a stored draft as returned to the client.
type DraftView struct {
	*Draft
	Target     string `json:"target"`
	AgeSeconds int64  `json:"ageSeconds"`
	Progress   int    `json:"progress"`
}

type DraftService struct {
	Client redis.Cmdable
	now    func() time.Time
}

// NewDraftService returns a draft store on client. A nil client makes every call fail with ErrUnavailable.
func NewDraftService(client redis.Cmdable) InterfaceDraftService {
	return &DraftService{Client: client, now: time.Now}
}

// DraftKey is the Redis key of a user's draft for target.
func DraftKey(userID uint, target string) string {
	return fmt.Sprintf("maintenance_draft:%d:%s", userID, target)
}

// 1 Save replaces the draft and restarts its TTL
func (s *DraftService) Save(ctx context.Context, actor Actor, target string, draft *Draft) (*Draft, error) {
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, invalid("draft is empty")
	}
	for i := range draft.Items {
		if draft.Items[i].Status == "" {
			draft.Items[i].Status = models.ItemNaoConferido
		}
		if !draft.Items[i].Status.Valid() {
			return nil, invalid("item %d: unknown status %q", draft.Items[i].ItemNumber, draft.Items[i].Status)
		}
	}
	if s.Client == nil {
		return nil, ErrUnavailable
	}
	draft.SavedAt = s.now().UTC()

	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}
	if err := s.Client.Set(ctx, DraftKey(actor.UserID, target), payload, DraftTTL).Err(); err != nil {
		return nil, fmt.Errorf("%w: save draft: %v", ErrUnavailable, err)
	}
	return draft, nil
}

// 2 Get returns the live draft with its age and progress
func (s *DraftService) Get(ctx context.Context, actor Actor, target string) (*DraftView, error) {
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	if s.Client == nil {
		return nil, ErrUnavailable
	}
	key := DraftKey(actor.UserID, target)
	raw, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load draft: %v", ErrUnavailable, err)
	}

	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		// A draft we cannot read is as good as none.
		s.Client.Del(ctx, key)
		return nil, ErrDraftNotFound
	}

	age := s.now().Sub(draft.SavedAt)
	if age > DraftTTL {
		s.Client.Del(ctx, key)
		return nil, ErrDraftNotFound
	}
	if age < 0 {
		age = 0
	}
	return &DraftView{
		Draft:      &draft,
		Target:     target,
		AgeSeconds: int64(age / time.Second),
		Progress:   draftProgress(draft.Items),
	}, nil
}

// 3 Discard deletes the draft; a missing draft is not an error
func (s *DraftService) Discard(ctx context.Context, actor Actor, target string) error {
	if err := checkTarget(target); err != nil {
		return err
	}
	if s.Client == nil {
		return ErrUnavailable
	}
	if err := s.Client.Del(ctx, DraftKey(actor.UserID, target)).Err(); err != nil {
		return fmt.Errorf("%w: discard draft: %v", ErrUnavailable, err)
	}
	return nil
}

func checkTarget(target string) error {
	if !draftTarget.MatchString(target) {
		return invalid("draft target must be new, new-<stationId> or m-<maintenanceId>")
	}
	return nil
}

func draftProgress(items []DraftItem) int {
	if len(items) == 0 {
		return 0
	}
	filled := 0
	for _, item := range items {
		if item.Status != models.ItemNaoConferido {
			filled++
		}
	}
	return (200*filled + len(items)) / (2 * len(items))
}
