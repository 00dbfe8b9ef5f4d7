package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	userCount       int
	spotCount       int
	ratingCount     int
	commentCount    int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	spots string
	users string
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type spotDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Building  string             `bson:"building"`
	Ratings   []ratingDocument   `bson:"ratings,omitempty"`
	Comments  []commentDocument  `bson:"comments,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type ratingDocument struct {
	UserID             string `bson:"userId"`
	Quietness          int    `bson:"quietness"`
	Comfort            int    `bson:"comfort"`
	SeatAvailability   int    `bson:"seatAvailability"`
	OutletAvailability int    `bson:"outletAvailability"`
	WifiConnection     int    `bson:"wifiConnection"`
	OverallRating      int    `bson:"overallRating"`
}

type commentDocument struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"userId"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

func main() {
	opts := parseFlags()

	_ = godotenv.Load()

	cfg := collections{
		spots: envOrDefault("SPOT_COLLECTION", "spots"),
		users: envOrDefault("USER_COLLECTION", "users"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "rate-my-study-spot")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		if err := dropCollections(ctx, db, cfg); err != nil {
			log.Fatalf("failed to drop collections: %v", err)
		}
		log.Printf("dropped existing collections")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	userDocs := generateUsers(rng, opts.userCount)
	if len(userDocs) == 0 {
		log.Fatal("no user docs were generated")
	}
	if err := insertMany(ctx, db.Collection(cfg.users), toAnySlice(userDocs)); err != nil {
		log.Fatalf("failed to insert users: %v", err)
	}

	spotDocs := generateSpots(rng, userDocs, opts)
	if len(spotDocs) == 0 {
		log.Fatal("no spot docs were generated")
	}
	if err := insertMany(ctx, db.Collection(cfg.spots), toAnySlice(spotDocs)); err != nil {
		log.Fatalf("failed to insert spots: %v", err)
	}

	totalRatings, totalComments := 0, 0
	for _, spot := range spotDocs {
		totalRatings += len(spot.Ratings)
		totalComments += len(spot.Comments)
	}
	log.Printf("seed complete: users=%d spots=%d ratings=%d comments=%d",
		len(userDocs), len(spotDocs), totalRatings, totalComments)
	log.Printf("Mongo: %s / %s", mongoURI, dbName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.userCount, "users", 12, "number of users to generate")
	flag.IntVar(&opts.spotCount, "spots", 15, "number of study spots to generate")
	flag.IntVar(&opts.ratingCount, "ratings", 60, "total ratings to spread across spots")
	flag.IntVar(&opts.commentCount, "comments", 40, "total comments to spread across spots")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop existing collections before seeding")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "random seed for reproducibility")
	flag.Parse()

	if opts.userCount <= 0 {
		log.Fatal("users must be at least 1")
	}
	if opts.spotCount <= 0 {
		log.Fatal("spots must be at least 1")
	}
	if opts.ratingCount < 0 {
		opts.ratingCount = 0
	}
	if opts.commentCount < 0 {
		opts.commentCount = 0
	}
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) error {
	for _, name := range []string{cfg.spots, cfg.users} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Printf("WARN: failed to drop collection %s: %v", name, err)
		}
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	spotIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "building", Value: 1}},
			Options: options.Index().SetName("uniq_spot_name_building").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_spot_created"),
		},
	}
	if _, err := db.Collection(cfg.spots).Indexes().CreateMany(ctx, spotIndexes); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.users).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_user_email").SetUnique(true),
	}); err != nil {
		return err
	}

	return nil
}

func generateUsers(rng *rand.Rand, count int) []userDocument {
	now := time.Now().UTC()
	docs := make([]userDocument, 0, count)
	for i := 0; i < count; i++ {
		name := userNames[i%len(userNames)]
		suffix := ""
		if i >= len(userNames) {
			suffix = fmt.Sprintf("%d", i/len(userNames)+1)
		}
		created := now.Add(-time.Duration(rng.Intn(365)) * 24 * time.Hour)
		docs = append(docs, userDocument{
			ID:        primitive.NewObjectID(),
			Name:      name + suffix,
			Email:     fmt.Sprintf("%s%s@example.edu", strings.ToLower(strings.ReplaceAll(name, " ", ".")), suffix),
			CreatedAt: created,
		})
	}
	return docs
}

func generateSpots(rng *rand.Rand, users []userDocument, opts seedOptions) []spotDocument {
	now := time.Now().UTC()
	ratingCounts := distribute(opts.ratingCount, opts.spotCount, 0, len(users), rng)
	commentCounts := distribute(opts.commentCount, opts.spotCount, 0, 8, rng)

	docs := make([]spotDocument, 0, opts.spotCount)
	for i := 0; i < opts.spotCount; i++ {
		name := spotNames[i%len(spotNames)]
		building := buildings[i%len(buildings)]
		if i >= len(spotNames) {
			name = fmt.Sprintf("%s %d", name, i/len(spotNames)+1)
		}

		created := now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour)
		doc := spotDocument{
			ID:        primitive.NewObjectID(),
			Name:      name,
			Building:  building,
			CreatedAt: created,
			UpdatedAt: created,
		}

		// One rating per user at most, matching the upsert semantics.
		raters := rng.Perm(len(users))[:ratingCounts[i]]
		for _, u := range raters {
			doc.Ratings = append(doc.Ratings, generateRating(rng, users[u].ID.Hex()))
		}

		for j := 0; j < commentCounts[i]; j++ {
			author := users[rng.Intn(len(users))]
			posted := created.Add(time.Duration(rng.Intn(96)) * time.Hour)
			doc.Comments = append(doc.Comments, commentDocument{
				ID:        uuid.NewString(),
				UserID:    author.ID.Hex(),
				Text:      commentTexts[rng.Intn(len(commentTexts))],
				CreatedAt: posted,
			})
			if posted.After(doc.UpdatedAt) {
				doc.UpdatedAt = posted
			}
		}

		docs = append(docs, doc)
	}
	return docs
}

func generateRating(rng *rand.Rand, userID string) ratingDocument {
	score := func() int { return 1 + rng.Intn(5) }
	optional := func() int {
		// Roughly a quarter of raters mark outlets or wifi as not applicable.
		if rng.Intn(4) == 0 {
			return 0
		}
		return score()
	}

	doc := ratingDocument{
		UserID:             userID,
		Quietness:          score(),
		Comfort:            score(),
		SeatAvailability:   score(),
		OutletAvailability: optional(),
		WifiConnection:     optional(),
	}
	doc.OverallRating = overall(doc)
	return doc
}

// overall mirrors the API's aggregation: not-applicable dimensions are
// excluded from the mean, the result rounded and clamped to [1,5].
func overall(doc ratingDocument) int {
	sum, n := 0, 0
	for _, v := range []int{doc.Quietness, doc.Comfort, doc.SeatAvailability, doc.OutletAvailability, doc.WifiConnection} {
		if v == 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 1
	}
	rounded := int(math.Round(float64(sum) / float64(n)))
	if rounded < 1 {
		return 1
	}
	if rounded > 5 {
		return 5
	}
	return rounded
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func distribute(total, buckets, minPerBucket, maxPerBucket int, rng *rand.Rand) []int {
	if buckets <= 0 {
		return nil
	}
	if maxPerBucket < minPerBucket {
		maxPerBucket = minPerBucket
	}
	counts := make([]int, buckets)
	for i := range counts {
		counts[i] = minPerBucket
	}
	remaining := total - minPerBucket*buckets
	if remaining < 0 {
		remaining = 0
	}
	capacity := 0
	for i := range counts {
		capacity += maxPerBucket - counts[i]
	}
	if remaining > capacity {
		remaining = capacity
	}
	for remaining > 0 {
		i := rng.Intn(buckets)
		if counts[i] >= maxPerBucket {
			continue
		}
		counts[i]++
		remaining--
	}
	return counts
}

var (
	userNames = []string{
		"Avery Chen", "Jordan Lee", "Sam Patel", "Riley Kim", "Morgan Diaz", "Casey Nguyen",
		"Taylor Brooks", "Jamie Park", "Quinn Rivera", "Drew Santos", "Alex Murphy", "Reese Tanaka",
	}

	spotNames = []string{
		"Quiet Reading Room", "Third Floor Carrels", "Atrium Tables", "Graduate Commons",
		"Basement Stacks", "Window Booths", "Group Study Room B", "Rooftop Terrace",
		"Periodicals Corner", "Cafe Mezzanine", "Map Room", "24-Hour Lounge",
		"East Wing Alcove", "Media Lab Annex", "Courtyard Benches",
	}

	buildings = []string{
		"Main Library", "Science Center", "Engineering Hall", "Student Union",
		"Law Library", "Music Building", "Humanities Tower",
	}

	commentTexts = []string{
		"Gets crowded around midterms but otherwise a solid pick.",
		"Outlets at every seat, and the chairs are actually comfortable.",
		"Wifi drops constantly near the windows. Sit toward the back.",
		"Dead silent in the mornings. Perfect for deep work.",
		"Hard to find a seat after 2pm on weekdays.",
		"The natural light here is great, but it gets warm in the afternoon.",
		"Decent spot but the HVAC hum can be distracting.",
		"Best kept secret on campus. Please don't tell anyone.",
	}
)
