package viator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/fetcher"
	"github.com/tidwall/gjson"
)

// get GET 요청을 보내고 응답 본문을 gjson으로 파싱합니다.
func (c *client) get(ctx context.Context, op, path string, query url.Values) (gjson.Result, error) {
	return c.do(ctx, op, http.MethodGet, path, query, nil)
}

// post JSON 본문을 담은 POST 요청을 보내고 응답 본문을 gjson으로 파싱합니다.
func (c *client) post(ctx context.Context, op, path string, payload any) (gjson.Result, error) {
	return c.do(ctx, op, http.MethodPost, path, nil, payload)
}

func (c *client) do(ctx context.Context, op, method, path string, query url.Values, payload any) (gjson.Result, error) {
	u := c.config.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	header := c.header.Clone()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, apperrors.Wrapf(err, apperrors.Internal, "%s 요청 본문 직렬화에 실패했습니다", op)
		}
		body = bytes.NewReader(b)
		header.Set("Content-Type", "application/json")
	}

	data, err := fetcher.ReadAll(ctx, c.fetcher, method, u, header, body)
	if err != nil {
		return gjson.Result{}, newUpstreamError(op, u, err)
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &UpstreamError{
			Op:    op,
			URL:   u,
			Body:  truncateBody(data),
			Cause: apperrors.New(apperrors.ParsingFailed, "카탈로그 API 응답이 올바른 JSON이 아닙니다"),
		}
	}

	return gjson.ParseBytes(data), nil
}

func truncateBody(b []byte) string {
	const maxLen = 512
	if len(b) > maxLen {
		return string(b[:maxLen])
	}
	return string(b)
}
