package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/nordexplore/internal/pkg/errors"
	"github.com/darkkaiser/nordexplore/internal/service/catalog/model"
	applog "github.com/darkkaiser/nordexplore/pkg/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const component = "catalog.repository"

const (
	// DefaultCollection 체험 상품 레코드를 보관하는 컬렉션 이름입니다.
	DefaultCollection = "experiences"

	defaultConnectTimeout = 10 * time.Second
)

// MongoConfig MongoDB 저장소 연결 설정입니다.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// MongoRepository MongoDB 컬렉션을 사용하는 Repository 구현체입니다.
type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection

	now func() time.Time
}

var _ Repository = (*MongoRepository)(nil)

// NewMongoRepository MongoDB에 연결하고 인덱스를 준비한 뒤 저장소를 반환합니다.
func NewMongoRepository(ctx context.Context, cfg MongoConfig) (*MongoRepository, error) {
	if cfg.URI == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "MongoDB 연결 URI가 비어 있습니다")
	}
	if cfg.Database == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "MongoDB 데이터베이스 이름이 비어 있습니다")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "MongoDB 연결에 실패하였습니다")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperrors.Wrap(err, apperrors.System, "MongoDB 서버에 응답이 없습니다")
	}

	r := &MongoRepository{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}
	if err := r.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"database":   cfg.Database,
		"collection": cfg.Collection,
	}).Info("MongoDB 저장소 연결 완료")

	return r, nil
}

// EnsureIndexes 슬러그 고유 인덱스와 조회용 인덱스를 생성합니다.
// productCode는 이전 레코드에 비어 있을 수 있으므로 고유 인덱스로 만들지 않습니다.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "productCode", Value: 1}}},
		{Keys: bson.D{{Key: "affiliatePartner", Value: 1}, {Key: "country", Value: 1}}},
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "MongoDB 인덱스 생성에 실패하였습니다")
	}
	return nil
}

func (r *MongoRepository) FindBySlug(ctx context.Context, slug string) (*model.Experience, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoRepository) FindByProductCode(ctx context.Context, code string) (*model.Experience, error) {
	code = model.NormalizeProductCode(code)
	if code == "" {
		return nil, ErrNotFound
	}

	e, err := r.findOne(ctx, bson.M{"productCode": code})
	if err == nil || !apperrors.Is(err, apperrors.NotFound) {
		return e, err
	}

	// productCode가 없는 이전 레코드
	e, err = r.findOne(ctx, legacyCodeFilter([]string{code}))
	if err != nil {
		return nil, err
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": e.ID}, bson.M{"$set": bson.M{"productCode": code}}); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"slug":         e.Slug,
			"product_code": code,
			"error":        err,
		}).Warn("이전 레코드의 상품 코드 보정 실패")
	}
	e.ProductCode = code

	return e, nil
}

func (r *MongoRepository) Find(ctx context.Context, filter Filter, opts ListOptions) ([]*model.Experience, error) {
	opts = opts.Normalize()

	findOpts := options.Find().SetSort(buildSort(opts))
	if opts.Limit > 0 {
		findOpts.SetSkip(opts.Skip()).SetLimit(int64(opts.Limit))
	}

	cursor, err := r.coll.Find(ctx, buildFilter(filter), findOpts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "레코드 목록 조회에 실패하였습니다")
	}

	result := make([]*model.Experience, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "레코드 목록 디코딩에 실패하였습니다")
	}
	return result, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "레코드 수 조회에 실패하였습니다")
	}
	return n, nil
}

func (r *MongoRepository) Insert(ctx context.Context, e *model.Experience) error {
	now := r.now()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}

	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return apperrors.Wrap(err, apperrors.System, "레코드 추가에 실패하였습니다")
	}
	return nil
}

func (r *MongoRepository) Upsert(ctx context.Context, e *model.Experience) (bool, error) {
	set, err := toDocument(e)
	if err != nil {
		return false, err
	}
	delete(set, "_id")
	delete(set, "createdAt")

	now := r.now()
	set["updatedAt"] = now

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"slug": e.Slug},
		bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": now}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.System, "레코드 저장에 실패하였습니다")
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepository) UpdateBySlug(ctx context.Context, slug string, patch model.Patch) error {
	if patch.SyncedAt.IsZero() {
		patch.SyncedAt = r.now()
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{"$set": buildSet(patch)})
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "레코드 갱신에 실패하였습니다")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteBySlug(ctx context.Context, slug string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return apperrors.Wrap(err, apperrors.System, "레코드 삭제에 실패하였습니다")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, buildFilter(filter))
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.System, "레코드 일괄 삭제에 실패하였습니다")
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, "MongoDB 서버에 응답이 없습니다")
	}
	return nil
}

func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Experience, error) {
	var e model.Experience
	if err := r.coll.FindOne(ctx, filter).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.System, "레코드 조회에 실패하였습니다")
	}
	return &e, nil
}

// buildFilter 조회 조건을 MongoDB 쿼리 문서로 변환합니다.
func buildFilter(filter Filter) bson.M {
	var conds []bson.M

	if filter.Partner != "" {
		conds = append(conds, bson.M{"affiliatePartner": filter.Partner})
	}
	if filter.Country != "" {
		conds = append(conds, bson.M{"country": caseInsensitive("^" + regexp.QuoteMeta(filter.Country) + "$")})
	}
	if filter.Active != nil {
		conds = append(conds, bson.M{"isActive": *filter.Active})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := caseInsensitive(regexp.QuoteMeta(search))
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"city": pattern},
		}})
	}
	if len(filter.ProductCodes) > 0 {
		codes := normalizeCodes(filter.ProductCodes)
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"productCode": bson.M{"$in": codes}},
			legacyCodeFilter(codes),
		}})
	}

	switch len(conds) {
	case 0:
		return bson.M{}
	case 1:
		return conds[0]
	default:
		return bson.M{"$and": conds}
	}
}

// legacyCodeFilter productCode 필드가 없는 이전 레코드를 슬러그 끝의 "-CODE"로 찾는 조건입니다.
func legacyCodeFilter(codes []string) bson.M {
	quoted := make([]string, 0, len(codes))
	for _, c := range codes {
		quoted = append(quoted, regexp.QuoteMeta(c))
	}
	if len(quoted) == 0 {
		// 어떤 슬러그와도 일치하지 않는 조건
		return bson.M{"_id": bson.M{"$exists": false}}
	}

	return bson.M{
		"productCode": bson.M{"$in": bson.A{"", nil}},
		"slug":        caseInsensitive("(^|-)(" + strings.Join(quoted, "|") + ")$"),
	}
}

// buildSort 정렬 옵션을 MongoDB 정렬 문서로 변환합니다. 동일 값은 슬러그 순으로 정렬합니다.
func buildSort(opts ListOptions) bson.D {
	dir := -1
	if opts.SortOrder == SortAsc {
		dir = 1
	}
	return bson.D{{Key: opts.SortBy, Value: dir}, {Key: "slug", Value: 1}}
}

// buildSet 부분 갱신을 $set 문서로 변환합니다.
func buildSet(patch model.Patch) bson.M {
	set := make(bson.M, len(patch.Values)+2)
	for f, v := range patch.Values {
		set[string(f)] = v
	}
	set["updatedAt"] = patch.SyncedAt
	set["lastSyncedAt"] = patch.SyncedAt
	return set
}

func caseInsensitive(pattern string) bson.M {
	return bson.M{"$regex": pattern, "$options": "i"}
}

func toDocument(e *model.Experience) (bson.M, error) {
	data, err := bson.Marshal(e)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "레코드 직렬화에 실패하였습니다")
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "레코드 직렬화에 실패하였습니다")
	}
	return doc, nil
}
