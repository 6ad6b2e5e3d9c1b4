package sync

import (
	"context"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/normalizer"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/repository"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
)

// BulkImport 북유럽 전체 카탈로그를 수집하여 슬러그 기준으로 저장(삽입 또는 교체)합니다.
//
// 같은 카탈로그로 여러 번 실행해도 슬러그가 중복되지 않습니다.
// ClearExisting이 지정되면 수집에 성공한 경우에만 기존 레코드를 삭제하므로, 수집 실패로 카탈로그가 비는 일은 없습니다.
func (s *Service) BulkImport(ctx context.Context, opts ImportOptions) (result *ImportResult, err error) {
	maxPerCountry := opts.MaxPerCountry
	if maxPerCountry <= 0 {
		maxPerCountry = s.maxPerCountry
	}

	r := s.startRun(OpImport, applog.Fields{
		"max_per_country": maxPerCountry,
		"clear_existing":  opts.ClearExisting,
	})
	result = &ImportResult{RunID: r.id}
	defer func() {
		d := s.finishRun(r, err, applog.Fields{
			"fetched":  result.Fetched,
			"inserted": result.Inserted,
			"replaced": result.Replaced,
			"failed":   result.Failed,
		})
		result.Duration = d.String()
	}()

	products, err := s.client.GetAllNordicProducts(ctx, maxPerCountry)
	if err != nil {
		return result, apperrors.Wrap(err, apperrors.Unavailable, "전체 카탈로그 수집에 실패하였습니다")
	}
	result.Fetched = len(products)

	if opts.ClearExisting {
		cleared, err := s.repo.DeleteMany(ctx, repository.Filter{Partner: model.PartnerViator})
		if err != nil {
			return result, apperrors.Wrap(err, apperrors.System, "기존 레코드 삭제에 실패하였습니다")
		}
		result.Cleared = cleared
		r.log.WithField("cleared", cleared).Info("기존 레코드 삭제 완료")
	}

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e, err := s.normalizer.Transform(p.Raw,
			normalizer.WithCountryHint(string(p.Country)),
			normalizer.WithSearchPrice(p.SearchPrice),
		)
		if err != nil {
			r.log.WithFields(applog.Fields{"product_code": p.Code, "error": err}).Warn("상품 정규화 실패: 건너뜁니다")
			result.Failed++
			result.Errors = append(result.Errors, ItemError{ProductCode: p.Code, Error: ReasonNormalizeFailed + ": " + err.Error()})
			s.item(r, OutcomeFailed)
			continue
		}

		inserted, err := s.repo.Upsert(ctx, e)
		if err != nil {
			r.log.WithFields(applog.Fields{"product_code": e.ProductCode, "slug": e.Slug, "error": err}).Warn("상품 저장 실패")
			result.Failed++
			result.Errors = append(result.Errors, ItemError{ProductCode: e.ProductCode, Slug: e.Slug, Error: ReasonRepositoryFailed + ": " + err.Error()})
			s.item(r, OutcomeFailed)
			continue
		}

		if inserted {
			result.Inserted++
			s.item(r, OutcomeInserted)
		} else {
			result.Replaced++
			s.item(r, OutcomeReplaced)
		}
	}

	return result, nil
}
