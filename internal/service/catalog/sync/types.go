package sync

import (
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
)

// Operation 동기화 작업 종류입니다.
type Operation string

const (
	OpImport  Operation = "import"
	OpAdd     Operation = "add"
	OpDelete  Operation = "delete"
	OpRefresh Operation = "refresh"
	OpSync    Operation = "sync"
)

// Outcome 항목 하나의 처리 결과입니다.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeReplaced Outcome = "replaced"
	OutcomeAdded    Outcome = "added"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeNotFound Outcome = "not_found"
	OutcomeUpdated  Outcome = "updated"
	OutcomeRemoved  Outcome = "removed"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeFailed   Outcome = "failed"
)

// 항목 결과 사유
const (
	ReasonAlreadyExists     = "already exists"
	ReasonDuplicateInBatch  = "duplicate in request"
	ReasonInvalidCode       = "invalid product code"
	ReasonInactive          = "product is inactive"
	ReasonUpstreamNotFound  = "product not found upstream"
	ReasonNotFoundLocally   = "product not found locally"
	ReasonMissingImage      = "missing image"
	ReasonMissingRating     = "missing rating"
	ReasonMissingPrice      = "missing price"
	ReasonNormalizeFailed   = "normalization failed"
	ReasonUpstreamFailed    = "upstream request failed"
	ReasonRepositoryFailed  = "repository operation failed"
)

var (
	// ErrSyncInProgress 증분 동기화가 이미 실행 중입니다.
	ErrSyncInProgress = apperrors.New(apperrors.Conflict, "증분 동기화가 이미 실행 중입니다")

	// ErrEmptyRequest 처리할 상품 코드가 지정되지 않았습니다.
	ErrEmptyRequest = apperrors.New(apperrors.InvalidInput, "처리할 상품 코드가 없습니다")
)

// ItemResult 상품 코드 하나의 처리 결과입니다.
type ItemResult struct {
	ProductCode string `json:"productCode"`
	Slug        string `json:"slug,omitempty"`
	Title       string `json:"title,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// ItemError 처리 중 실패한 항목과 사유입니다.
type ItemError struct {
	ProductCode string `json:"productCode"`
	Slug        string `json:"slug,omitempty"`
	Error       string `json:"error"`
}

// ImportOptions 일괄 가져오기 옵션입니다.
type ImportOptions struct {
	// MaxPerCountry 국가별 최대 수집 수입니다. 0 이하이면 설정된 기본값을 사용합니다.
	MaxPerCountry int `json:"maxPerCountry"`

	// ClearExisting true이면 수집에 성공한 뒤 저장할 때 제휴 파트너의 기존 레코드를 모두 삭제합니다.
	ClearExisting bool `json:"clearExisting"`
}

// ImportResult 일괄 가져오기 통계입니다.
type ImportResult struct {
	RunID    string      `json:"runId"`
	Fetched  int         `json:"fetched"`
	Cleared  int64       `json:"cleared"`
	Inserted int         `json:"inserted"`
	Replaced int         `json:"replaced"`
	Failed   int         `json:"failed"`
	Errors   []ItemError `json:"errors,omitempty"`
	Duration string      `json:"duration"`
}

// Imported 저장에 성공한 레코드 수입니다.
func (r *ImportResult) Imported() int {
	return r.Inserted + r.Replaced
}

// AddResult 상품 추가 결과입니다.
type AddResult struct {
	RunID   string       `json:"runId"`
	Added   []ItemResult `json:"added"`
	Skipped []ItemResult `json:"skipped"`
	Failed  []ItemResult `json:"failed"`
}

// DeleteResult 상품 삭제 결과입니다.
type DeleteResult struct {
	RunID    string       `json:"runId"`
	Deleted  []ItemResult `json:"deleted"`
	NotFound []string     `json:"notFound"`
	Failed   []ItemResult `json:"failed,omitempty"`
}

// RefreshRequest 갱신 대상입니다. All이 true이면 Codes는 무시됩니다.
type RefreshRequest struct {
	Codes []string
	All   bool
}

// RefreshResult 상품 갱신 결과입니다. 업스트림에서 판매 중단된 상품은 Failed가 아니라 Removed에 기록됩니다.
type RefreshResult struct {
	RunID   string       `json:"runId"`
	Updated []ItemResult `json:"updated"`
	Removed []ItemResult `json:"removed"`
	Failed  []ItemResult `json:"failed"`
}

// SyncResult 증분 동기화 결과입니다.
type SyncResult struct {
	RunID    string      `json:"runId"`
	Checked  int         `json:"checked"`
	Modified int         `json:"modified"`
	Updated  int         `json:"updated"`
	Errors   []ItemError `json:"errors,omitempty"`
	Duration string      `json:"duration"`
}

// RefreshState 갱신 대상 레코드 하나의 처리 상태입니다.
//
//	PENDING → FETCHING_DETAIL → REMOVED
//	                          → UPDATING → UPDATED
//	                          → FAILED
type RefreshState string

const (
	StatePending        RefreshState = "PENDING"
	StateFetchingDetail RefreshState = "FETCHING_DETAIL"
	StateUpdating       RefreshState = "UPDATING"
	StateUpdated        RefreshState = "UPDATED"
	StateRemoved        RefreshState = "REMOVED"
	StateFailed         RefreshState = "FAILED"
)

// IsTerminal 더 이상 전이가 없는 상태인지 확인합니다.
func (s RefreshState) IsTerminal() bool {
	return s == StateUpdated || s == StateRemoved || s == StateFailed
}

// ProgressEvent 갱신 진행 상황 알림입니다.
type ProgressEvent struct {
	ProductCode string       `json:"productCode"`
	Slug        string       `json:"slug,omitempty"`
	State       RefreshState `json:"state"`
	Reason      string       `json:"reason,omitempty"`

	// Index 대상 목록에서의 순번(1부터)이고 Total은 전체 대상 수입니다.
	Index int `json:"index"`
	Total int `json:"total"`

	At time.Time `json:"at"`
}

// ProgressFunc 상태가 전이될 때마다 호출됩니다. 같은 갱신 작업 안에서는 순서대로 호출됩니다.
type ProgressFunc func(ProgressEvent)

// Recorder 작업 결과를 지표로 기록합니다.
type Recorder interface {
	ItemProcessed(op Operation, outcome Outcome)
	OperationCompleted(op Operation, elapsed time.Duration, err error)
	SyncSucceeded(at time.Time)
}

type nopRecorder struct{}

func (nopRecorder) ItemProcessed(Operation, Outcome)                   {}
func (nopRecorder) OperationCompleted(Operation, time.Duration, error) {}
func (nopRecorder) SyncSucceeded(time.Time)                            {}
