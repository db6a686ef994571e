package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/flowcast-dev/flowcast/internal/model"
)

// companiesCollection holds one document per company.
const companiesCollection = "companies"

// dialTimeout bounds the initial connection handshake.
const dialTimeout = 10 * time.Second

// Mongo is a MongoDB-backed Store. Decimal amounts are persisted as
// strings to round-trip exactly.
type Mongo struct {
	coll *mongo.Collection
}

// Dial connects to MongoDB and verifies the connection with a ping.
func Dial(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

// NewMongo creates a Mongo store over the given database.
func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{coll: client.Database(database).Collection(companiesCollection)}
}

// Get implements Store.
func (m *Mongo) Get(ctx context.Context, companyID string) (*State, error) {
	var doc stateDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": companyID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("company %q: %w", companyID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading company %q: %w", companyID, err)
	}
	return doc.toState()
}

// Put implements Store.
func (m *Mongo) Put(ctx context.Context, state *State) error {
	if state.Company.ID == "" {
		return fmt.Errorf("company ID is required")
	}

	doc := fromState(state)
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("saving company %q: %w", doc.ID, err)
	}
	return nil
}

// List implements Store.
func (m *Mongo) List(ctx context.Context) ([]Company, error) {
	cursor, err := m.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []Company
	for cursor.Next(ctx) {
		var doc stateDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding company: %w", err)
		}
		company, err := doc.Company.toCompany(doc.ID)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating companies: %w", err)
	}
	return companies, nil
}

// Count implements Store.
func (m *Mongo) Count(ctx context.Context) (int, error) {
	n, err := m.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("counting companies: %w", err)
	}
	return int(n), nil
}

var _ Store = (*Mongo)(nil)

type stateDoc struct {
	ID           string           `bson:"_id"`
	Company      companyDoc       `bson:"company"`
	Transactions []transactionDoc `bson:"transactions"`
	Groups       []groupDoc       `bson:"groups"`
	Sentiment    *Sentiment       `bson:"sentiment,omitempty"`
}

type companyDoc struct {
	Name           string    `bson:"name"`
	Website        string    `bson:"website"`
	LogoURL        string    `bson:"logoUrl"`
	PrimaryColor   string    `bson:"primaryColor"`
	SecondaryColor string    `bson:"secondaryColor"`
	CreatedAt      time.Time `bson:"createdAt"`
	SetupStep      string    `bson:"setupStep"`
	CurrentBalance string    `bson:"currentBalance"`
}

type transactionDoc struct {
	ID          int     `bson:"id"`
	Date        string  `bson:"date"`
	Description string  `bson:"description"`
	Amount      string  `bson:"amount"`
	Type        string  `bson:"type"`
	GroupID     *string `bson:"groupId,omitempty"`
	CategoryID  string  `bson:"categoryId"`
}

type groupDoc struct {
	ID             string `bson:"id"`
	Name           string `bson:"name"`
	CategoryID     string `bson:"categoryId"`
	Frequency      string `bson:"frequency"`
	AvgAmount      string `bson:"avgAmount"`
	TransactionIDs []int  `bson:"transactionIds"`
	Confirmed      bool   `bson:"confirmed"`
}

func fromState(state *State) stateDoc {
	doc := stateDoc{
		ID: state.Company.ID,
		Company: companyDoc{
			Name:           state.Company.Name,
			Website:        state.Company.Website,
			LogoURL:        state.Company.LogoURL,
			PrimaryColor:   state.Company.PrimaryColor,
			SecondaryColor: state.Company.SecondaryColor,
			CreatedAt:      state.Company.CreatedAt,
			SetupStep:      state.Company.SetupStep,
			CurrentBalance: state.Company.CurrentBalance.String(),
		},
		Sentiment: state.Sentiment,
	}
	for _, txn := range state.Transactions {
		doc.Transactions = append(doc.Transactions, transactionDoc{
			ID:          txn.ID,
			Date:        txn.Date.String(),
			Description: txn.Description,
			Amount:      txn.Amount.String(),
			Type:        txn.Type,
			GroupID:     txn.GroupID,
			CategoryID:  txn.CategoryID,
		})
	}
	for _, g := range state.Groups {
		doc.Groups = append(doc.Groups, groupDoc{
			ID:             g.ID,
			Name:           g.Name,
			CategoryID:     g.CategoryID,
			Frequency:      string(g.Frequency),
			AvgAmount:      g.AvgAmount.String(),
			TransactionIDs: g.TransactionIDs,
			Confirmed:      g.Confirmed,
		})
	}
	return doc
}

func (d stateDoc) toState() (*State, error) {
	company, err := d.Company.toCompany(d.ID)
	if err != nil {
		return nil, err
	}
	state := &State{Company: company, Sentiment: d.Sentiment}

	for _, txn := range d.Transactions {
		date, err := model.ParseDate(txn.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", txn.ID, err)
		}
		amount, err := decimal.NewFromString(txn.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d amount %q: %w", txn.ID, txn.Amount, err)
		}
		state.Transactions = append(state.Transactions, model.Transaction{
			ID:          txn.ID,
			Date:        date,
			Description: txn.Description,
			Amount:      amount,
			Type:        txn.Type,
			GroupID:     txn.GroupID,
			CategoryID:  txn.CategoryID,
		})
	}

	for _, g := range d.Groups {
		avg, err := decimal.NewFromString(g.AvgAmount)
		if err != nil {
			return nil, fmt.Errorf("group %s avg amount %q: %w", g.ID, g.AvgAmount, err)
		}
		state.Groups = append(state.Groups, model.Group{
			ID:               g.ID,
			Name:             g.Name,
			CategoryID:       g.CategoryID,
			Frequency:        model.Frequency(g.Frequency),
			AvgAmount:        avg,
			TransactionCount: len(g.TransactionIDs),
			TransactionIDs:   g.TransactionIDs,
			Confirmed:        g.Confirmed,
		})
	}
	return state, nil
}

func (d companyDoc) toCompany(companyID string) (Company, error) {
	balance := decimal.Zero
	if d.CurrentBalance != "" {
		var err error
		balance, err = decimal.NewFromString(d.CurrentBalance)
		if err != nil {
			return Company{}, fmt.Errorf("company %q balance %q: %w", companyID, d.CurrentBalance, err)
		}
	}
	return Company{
		ID:             companyID,
		Name:           d.Name,
		Website:        d.Website,
		LogoURL:        d.LogoURL,
		PrimaryColor:   d.PrimaryColor,
		SecondaryColor: d.SecondaryColor,
		CreatedAt:      d.CreatedAt,
		SetupStep:      d.SetupStep,
		CurrentBalance: balance,
	}, nil
}
