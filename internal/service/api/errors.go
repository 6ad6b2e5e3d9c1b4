package api

import (
	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
)

var (
	// ErrCatalogNotInitialized 카탈로그 동기화 서비스가 주입되지 않았을 때 반환하는 에러입니다.
	ErrCatalogNotInitialized = apperrors.New(apperrors.Internal, "카탈로그 동기화 서비스가 초기화되지 않았습니다")

	// ErrStoreNotInitialized 저장소가 주입되지 않았을 때 반환하는 에러입니다.
	ErrStoreNotInitialized = apperrors.New(apperrors.Internal, "저장소가 초기화되지 않았습니다")
)
