package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cafeteria/internal/model"
)

// Collection names shared with the original mongoose models.
const (
	usersCollection       = "users"
	mealsCollection       = "meals"
	ordersCollection      = "orders"
	feedbacksCollection   = "feedbacks"
	orderEventsCollection = "order_events"
)

// EnsureMongoIndexes creates the indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "client", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		feedbacksCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "meal", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "meal", Value: 1}}},
		},
		orderEventsCollection: {
			{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Users

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed user repository.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, user)
	return mongoError(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoError(err)
	}
	return &user, nil
}

func (r *mongoUserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Meals

// mealDocument is the stored shape of a meal. Prices are Decimal128.
type mealDocument struct {
	ID        string               `bson:"_id"`
	Name      string               `bson:"name"`
	Image     string               `bson:"image"`
	Category  string               `bson:"category"`
	Price     primitive.Decimal128 `bson:"price"`
	Available bool                 `bson:"available"`
}

func newMealDocument(m *model.Meal) (mealDocument, error) {
	price, err := primitive.ParseDecimal128(m.Price.String())
	if err != nil {
		return mealDocument{}, fmt.Errorf("encode price %s: %w", m.Price, err)
	}
	return mealDocument{
		ID:        m.ID,
		Name:      m.Name,
		Image:     m.Image,
		Category:  string(m.Category),
		Price:     price,
		Available: m.Available,
	}, nil
}

func (d mealDocument) toModel() (model.Meal, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return model.Meal{}, fmt.Errorf("decode price of meal %s: %w", d.ID, err)
	}
	return model.Meal{
		ID:        d.ID,
		Name:      d.Name,
		Image:     d.Image,
		Category:  model.MealCategory(d.Category),
		Price:     price,
		Available: d.Available,
	}, nil
}

type mongoMealRepository struct {
	coll *mongo.Collection
}

// NewMongoMealRepository builds a MongoDB-backed meal repository.
func NewMongoMealRepository(db *mongo.Database) MealRepository {
	return &mongoMealRepository{coll: db.Collection(mealsCollection)}
}

func (r *mongoMealRepository) Create(ctx context.Context, meal *model.Meal) error {
	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	doc, err := newMealDocument(meal)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return mongoError(err)
}

func (r *mongoMealRepository) Update(ctx context.Context, meal *model.Meal) error {
	doc, err := newMealDocument(meal)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": meal.ID}, doc)
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoMealRepository) FindByID(ctx context.Context, id string) (*model.Meal, error) {
	var doc mealDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mongoError(err)
	}
	meal, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mongoMealRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Meal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoMealRepository) List(ctx context.Context) ([]model.Meal, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoMealRepository) find(ctx context.Context, filter bson.M) ([]model.Meal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []mealDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	meals := make([]model.Meal, 0, len(docs))
	for _, doc := range docs {
		meal, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, nil
}

// Orders

type mongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository builds a MongoDB-backed order repository.
// Order lines are embedded in the order document.
func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	_, err := r.coll.InsertOne(ctx, order)
	return mongoError(err)
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, mongoError(err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) ListByClient(ctx context.Context, clientID string) ([]model.Order, error) {
	return r.find(ctx, bson.M{"client": clientID})
}

func (r *mongoOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoOrderRepository) find(ctx context.Context, filter bson.M) ([]model.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, refusedReason *string) (*model.Order, error) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if refusedReason != nil {
		set["refusedReason"] = *refusedReason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order model.Order
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&order); err != nil {
		return nil, mongoError(err)
	}
	return &order, nil
}

// Feedback

type mongoFeedbackRepository struct {
	coll *mongo.Collection
}

// NewMongoFeedbackRepository builds a MongoDB-backed feedback repository.
func NewMongoFeedbackRepository(db *mongo.Database) FeedbackRepository {
	return &mongoFeedbackRepository{coll: db.Collection(feedbacksCollection)}
}

func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
	}
	_, err := r.coll.InsertOne(ctx, feedback)
	return mongoError(err)
}

func (r *mongoFeedbackRepository) Update(ctx context.Context, feedback *model.Feedback) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": feedback.ID}, bson.M{"$set": bson.M{
		"stars":    feedback.Stars,
		"feedback": feedback.Text,
		"date":     feedback.Date,
	}})
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoFeedbackRepository) FindByUserAndMeal(ctx context.Context, userID, mealID string) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.coll.FindOne(ctx, bson.M{"user": userID, "meal": mealID}).Decode(&feedback); err != nil {
		return nil, mongoError(err)
	}
	return &feedback, nil
}

// feedbackWithAuthor is the aggregation result of ListByMeal.
type feedbackWithAuthor struct {
	model.Feedback `bson:",inline"`
	Author         *struct {
		ID    string `bson:"_id"`
		Name  string `bson:"name"`
		Email string `bson:"email"`
	} `bson:"author"`
}

func (r *mongoFeedbackRepository) ListByMeal(ctx context.Context, mealID string) ([]model.Feedback, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "meal", Value: mealID}}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "author.password", Value: 0},
			{Key: "author.role", Value: 0},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []feedbackWithAuthor
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	feedbacks := make([]model.Feedback, 0, len(rows))
	for _, row := range rows {
		fb := row.Feedback
		if row.Author != nil {
			fb.Author = &model.Author{ID: row.Author.ID, Name: row.Author.Name, Email: row.Author.Email}
		}
		feedbacks = append(feedbacks, fb)
	}
	return feedbacks, nil
}

// Order events

type mongoOrderEventRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderEventRepository builds a MongoDB-backed order event repository.
func NewMongoOrderEventRepository(db *mongo.Database) OrderEventRepository {
	return &mongoOrderEventRepository{coll: db.Collection(orderEventsCollection)}
}

func (r *mongoOrderEventRepository) Create(ctx context.Context, event *model.OrderEvent) error {
	prepareEvent(event)
	_, err := r.coll.InsertOne(ctx, event)
	return err
}

func (r *mongoOrderEventRepository) CreateBatch(ctx context.Context, events []model.OrderEvent) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(events))
	for i := range events {
		prepareEvent(&events[i])
		docs = append(docs, events[i])
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

func prepareEvent(event *model.OrderEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
}

func (r *mongoOrderEventRepository) ListByOrder(ctx context.Context, orderID string) ([]model.OrderEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"orderId": orderID}, opts)
	if err != nil {
		return nil, err
	}
	var events []model.OrderEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
