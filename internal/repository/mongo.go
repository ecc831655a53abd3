package repository

import (
	"context"
	"errors"
	"time"

	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Collections names the collections used by the Mongo stores.
type Collections struct {
	Voters       string
	Cases        string
	InvalidVotes string
}

// Mongo implements the stores on MongoDB. Transactions need a replica set.
type Mongo struct {
	client       *mongo.Client
	voters       *mongo.Collection
	cases        *mongo.Collection
	invalidVotes *mongo.Collection
	timeout      time.Duration
}

// NewMongo binds the stores to db.
func NewMongo(client *mongo.Client, db *mongo.Database, names Collections) *Mongo {
	return &Mongo{
		client:       client,
		voters:       db.Collection(names.Voters),
		cases:        db.Collection(names.Cases),
		invalidVotes: db.Collection(names.InvalidVotes),
		timeout:      utils.DefaultQueryTimeout,
	}
}

// Stores exposes m through the store interfaces.
func (m *Mongo) Stores() Stores {
	return Stores{
		Voters:       mongoVoters{m},
		Cases:        mongoCases{m},
		InvalidVotes: mongoInvalidVotes{m},
		Tx:           m,
	}
}

// WithTransaction implements Transactor.
func (m *Mongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return models.NewInfrastructureError("start session", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	return err
}

// observe records one database operation and wraps unexpected driver errors.
func observe(op, collection string, err error) error {
	result := "success"
	if err != nil {
		result = "error"
	}
	observability.DatabaseOperations.WithLabelValues(op, collection, result).Inc()
	if err == nil {
		return nil
	}
	return models.NewInfrastructureError(op+" "+collection, err)
}

type mongoVoters struct{ m *Mongo }

func (s mongoVoters) Create(ctx context.Context, voter *models.Voter) error {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "insert", s.m.voters.Name())
	defer cleanup()

	now := time.Now().UTC()
	voter.CreatedAt, voter.UpdatedAt = now, now

	if _, err := utils.InsertOneWithTimeout(ctx, s.m.voters, voter, s.m.timeout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrVoterExists
		}
		utils.RecordErrorInSpan(span, err, nil)
		return observe("insert", s.m.voters.Name(), err)
	}
	return observe("insert", s.m.voters.Name(), nil)
}

func (s mongoVoters) Find(ctx context.Context, voterID string) (*models.Voter, error) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "find", s.m.voters.Name())
	defer cleanup()

	var voter models.Voter
	err := utils.FindOneWithTimeout(ctx, s.m.voters, bson.M{"voter_id": voterID}, &voter, s.m.timeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrVoterNotFound
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"voter_id": observability.MaskVoterID(voterID)})
		return nil, observe("find", s.m.voters.Name(), err)
	}
	_ = observe("find", s.m.voters.Name(), nil)
	return &voter, nil
}

func (s mongoVoters) Update(ctx context.Context, voterID string, update models.VoterUpdate) error {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "update", s.m.voters.Name())
	defer cleanup()

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if update.VerificationStatus != nil {
		set["verification_status"] = *update.VerificationStatus
	}
	if update.PendingIDCaseID != nil {
		if *update.PendingIDCaseID == "" {
			unset["pending_id_case_id"] = ""
		} else {
			set["pending_id_case_id"] = *update.PendingIDCaseID
		}
	}
	if update.VoteStatus != nil {
		set["vote_status"] = *update.VoteStatus
	}
	if update.IsBlocked != nil {
		set["is_blocked"] = *update.IsBlocked
	}

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}

	result, err := utils.UpdateOneWithTimeout(ctx, s.m.voters, bson.M{"voter_id": voterID}, doc, s.m.timeout)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return observe("update", s.m.voters.Name(), err)
	}
	_ = observe("update", s.m.voters.Name(), nil)
	if result.MatchedCount == 0 {
		return models.ErrVoterNotFound
	}
	return nil
}

type mongoCases struct{ m *Mongo }

func (s mongoCases) Create(ctx context.Context, c *models.VerificationCase) error {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "insert", s.m.cases.Name())
	defer cleanup()

	if _, err := utils.InsertOneWithTimeout(ctx, s.m.cases, c, s.m.timeout); err != nil {
		// Either the case id or the partial pending index
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrCaseAlreadyOpen
		}
		utils.RecordErrorInSpan(span, err, nil)
		return observe("insert", s.m.cases.Name(), err)
	}
	return observe("insert", s.m.cases.Name(), nil)
}

func (s mongoCases) Find(ctx context.Context, caseID string) (*models.VerificationCase, error) {
	return s.findOne(ctx, bson.M{"case_id": caseID})
}

func (s mongoCases) FindPendingByVoter(ctx context.Context, voterID string) (*models.VerificationCase, error) {
	return s.findOne(ctx, bson.M{"voter_id": voterID, "status": models.CaseStatusPending})
}

func (s mongoCases) findOne(ctx context.Context, filter bson.M) (*models.VerificationCase, error) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "find", s.m.cases.Name())
	defer cleanup()

	var c models.VerificationCase
	err := utils.FindOneWithTimeout(ctx, s.m.cases, filter, &c, s.m.timeout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrCaseNotFound
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, observe("find", s.m.cases.Name(), err)
	}
	_ = observe("find", s.m.cases.Name(), nil)
	return &c, nil
}

func (s mongoCases) Decide(ctx context.Context, caseID string, status models.CaseStatus, review models.AdminReview) (*models.VerificationCase, error) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "decide", s.m.cases.Name())
	defer cleanup()

	_, err := utils.UpdateWithGuard(ctx, s.m.cases,
		bson.M{"case_id": caseID},
		bson.M{"status": models.CaseStatusPending},
		bson.M{"$set": bson.M{"status": status, "admin_review": review}},
	)
	var guardErr utils.GuardError
	switch {
	case errors.Is(err, utils.ErrDocumentNotFound):
		return nil, models.ErrCaseNotFound
	case errors.As(err, &guardErr):
		return nil, models.ErrCaseAlreadyDecided
	case err != nil:
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"case_id": caseID})
		return nil, observe("update", s.m.cases.Name(), err)
	}
	_ = observe("update", s.m.cases.Name(), nil)
	return s.Find(ctx, caseID)
}

func (s mongoCases) List(ctx context.Context, filter models.CaseFilter) ([]models.VerificationCase, int64, error) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "list", s.m.cases.Name())
	defer cleanup()

	filter.Normalize()
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := utils.CountDocumentsWithTimeout(ctx, s.m.cases, query, s.m.timeout)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, 0, observe("count", s.m.cases.Name(), err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "case_id", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cases := []models.VerificationCase{}
	if err := utils.FindAllWithTimeout(ctx, s.m.cases, query, &cases, s.m.timeout, opts); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, 0, observe("find", s.m.cases.Name(), err)
	}
	_ = observe("find", s.m.cases.Name(), nil)
	return cases, total, nil
}

func (s mongoCases) Statistics(ctx context.Context) (models.CaseStatistics, error) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "aggregate", s.m.cases.Name())
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, s.m.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := s.m.cases.Aggregate(ctx, pipeline)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return models.CaseStatistics{}, observe("aggregate", s.m.cases.Name(), err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.CaseStatus `bson:"_id"`
		Count  int64             `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.CaseStatistics{}, observe("aggregate", s.m.cases.Name(), err)
	}

	var stats models.CaseStatistics
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.CaseStatusPending:
			stats.Pending = row.Count
		case models.CaseStatusApproved:
			stats.Approved = row.Count
		case models.CaseStatusRejected:
			stats.Rejected = row.Count
		}
	}
	_ = observe("aggregate", s.m.cases.Name(), nil)
	return stats, nil
}

type mongoInvalidVotes struct{ m *Mongo }

func (s mongoInvalidVotes) Create(ctx context.Context, vote *models.InvalidVote) error {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "insert", s.m.invalidVotes.Name())
	defer cleanup()

	if _, err := utils.InsertOneWithTimeout(ctx, s.m.invalidVotes, vote, s.m.timeout); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return observe("insert", s.m.invalidVotes.Name(), err)
	}
	return observe("insert", s.m.invalidVotes.Name(), nil)
}

func (s mongoInvalidVotes) ListByVoter(ctx context.Context, voterID string) ([]models.InvalidVote, error) {
	ctx, span, cleanup := utils.TraceDatabaseOperation(ctx, "find", s.m.invalidVotes.Name())
	defer cleanup()

	votes := []models.InvalidVote{}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if err := utils.FindAllWithTimeout(ctx, s.m.invalidVotes, bson.M{"voter_id": voterID}, &votes, s.m.timeout, opts); err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, observe("find", s.m.invalidVotes.Name(), err)
	}
	_ = observe("find", s.m.invalidVotes.Name(), nil)
	return votes, nil
}
