package sync

import (
	"context"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

// IncrementalSync 최근 변경 기간 안에 업스트림에서 수정된 상품만 골라 기존 레코드를 부분 갱신합니다.
//
// 레코드를 새로 만들거나 삭제하지 않습니다. 변경 목록 조회 자체가 실패하면 작업 전체가 Unavailable 에러로 실패하고,
// 레코드별 갱신 실패는 Errors에 모아 보고합니다. 로컬에 상품 코드가 하나도 없으면 업스트림을 호출하지 않습니다.
// 이미 실행 중이면 ErrSyncInProgress를 반환합니다.
func (s *Service) IncrementalSync(ctx context.Context) (result *SyncResult, err error) {
	if !s.locks.TryLock(syncLockKey) {
		return nil, ErrSyncInProgress
	}
	defer s.locks.Unlock(syncLockKey)

	r := s.startRun(OpSync, applog.Fields{"window": s.window.String()})
	result = &SyncResult{RunID: r.id}
	defer func() {
		d := s.finishRun(r, err, applog.Fields{
			"checked":  result.Checked,
			"modified": result.Modified,
			"updated":  result.Updated,
			"errors":   len(result.Errors),
		})
		result.Duration = d.String()
		if err == nil {
			s.recorder.SyncSucceeded(s.now())
		}
	}()

	records, err := s.repo.Find(ctx, repository.Filter{Partner: model.PartnerViator}, repository.ListOptions{})
	if err != nil {
		return result, apperrors.Wrap(err, apperrors.System, "로컬 레코드 조회에 실패하였습니다")
	}

	byCode := make(map[string]*model.Experience, len(records))
	codes := make([]string, 0, len(records))
	for _, e := range records {
		code := e.ResolvedProductCode()
		if code == "" {
			continue
		}
		if _, dup := byCode[code]; dup {
			continue
		}
		byCode[code] = e
		codes = append(codes, code)
	}
	result.Checked = len(codes)

	if len(codes) == 0 {
		r.log.Info("확인할 상품 코드가 없어 변경 조회를 생략합니다")
		return result, nil
	}

	since := r.startAt.Add(-s.window)
	details, err := s.client.UpdateModifiedProducts(ctx, codes, since)
	if err != nil {
		return result, apperrors.Wrap(err, apperrors.Unavailable, "변경된 상품 목록 조회에 실패하였습니다")
	}
	result.Modified = len(details)

	for _, d := range details {
		e, ok := byCode[d.Code]
		if !ok {
			continue
		}
		if !d.IsActive() {
			// 판매 중단 상품의 삭제는 관리자 갱신(Refresh)에서만 수행합니다.
			r.log.WithFields(applog.Fields{"product_code": d.Code, "status": d.Status}).Info("판매 중단된 상품: 동기화에서는 변경하지 않습니다")
			s.item(r, OutcomeIgnored)
			continue
		}

		if err := s.syncOne(ctx, e, d.Code, d.Raw); err != nil {
			r.log.WithFields(applog.Fields{"product_code": d.Code, "slug": e.Slug, "error": err}).Warn("상품 동기화 실패")
			result.Errors = append(result.Errors, ItemError{ProductCode: d.Code, Slug: e.Slug, Error: err.Error()})
			s.item(r, OutcomeFailed)
			continue
		}

		result.Updated++
		s.item(r, OutcomeUpdated)
	}

	return result, nil
}

func (s *Service) syncOne(ctx context.Context, stored *model.Experience, code string, raw model.RawProduct) error {
	s.locks.Lock(code)
	defer s.locks.Unlock(code)

	e, err := s.normalizer.Transform(raw, normalizer.WithSlug(stored.Slug))
	if err != nil {
		return err
	}

	fields := patchFields(model.SyncFields, e)
	if stored.ProductCode == "" {
		fields = append(fields, model.FieldProductCode)
	}

	return s.repo.UpdateBySlug(ctx, stored.Slug, model.NewPatch(e, fields, s.now()))
}
