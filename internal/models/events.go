package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryTech       Category = "Tech"
	CategoryConference Category = "Conference"
	CategoryWorkshop   Category = "Workshop"
	CategoryFestival   Category = "Festival"
	CategoryAcademic   Category = "Academic"
	CategoryReligious  Category = "Religious"
	CategoryBusiness   Category = "Business"
	CategorySports     Category = "Sports"
)

// Categories lists every category an event may be stored with.
var Categories = []Category{
	CategoryTech,
	CategoryConference,
	CategoryWorkshop,
	CategoryFestival,
	CategoryAcademic,
	CategoryReligious,
	CategoryBusiness,
	CategorySports,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Coordinates is a [latitude, longitude] pair, stored and served in that order.
type Coordinates [2]float64

func (c Coordinates) Latitude() float64  { return c[0] }
func (c Coordinates) Longitude() float64 { return c[1] }

type Location struct {
	Name        string      `bson:"name" json:"name" validate:"required"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
	Address     string      `bson:"address" json:"address" validate:"required"`
}

// CandidateEvent is an event proposed by a scraper during one ingestion run,
// before it has been persisted.
type CandidateEvent struct {
	Title       string    `bson:"title" json:"title" validate:"required"`
	Description string    `bson:"description" json:"description" validate:"required"`
	StartDate   time.Time `bson:"startDate" json:"startDate" validate:"required"`
	EndDate     time.Time `bson:"endDate" json:"endDate" validate:"required"`
	Location    Location  `bson:"location" json:"location"`
	Category    Category  `bson:"category" json:"category" validate:"required,oneof=Tech Conference Workshop Festival Academic Religious Business Sports"`
	// TicketPrice is nil for free events.
	TicketPrice *float64 `bson:"ticketPrice" json:"ticketPrice" validate:"omitempty,gt=0"`
	SourceURL   string   `bson:"sourceUrl" json:"sourceUrl" validate:"required,url"`
	Organizer   string   `bson:"organizer" json:"organizer" validate:"required"`
	ImageURL    string   `bson:"imageUrl" json:"imageUrl,omitempty"`
}

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	Location    Location           `bson:"location" json:"location"`
	Category    Category           `bson:"category" json:"category"`
	TicketPrice *float64           `bson:"ticketPrice" json:"ticketPrice"`
	SourceURL   string             `bson:"sourceUrl" json:"sourceUrl"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl,omitempty"`
	LastScraped time.Time          `bson:"lastScraped" json:"lastScraped"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// apply overwrites every scraped field of e with the candidate's values.
func (e *Event) apply(c CandidateEvent, now time.Time) {
	e.Title = c.Title
	e.Description = c.Description
	e.StartDate = c.StartDate
	e.EndDate = c.EndDate
	e.Location = c.Location
	e.Category = c.Category
	e.TicketPrice = c.TicketPrice
	e.SourceURL = c.SourceURL
	e.Organizer = c.Organizer
	e.ImageURL = c.ImageURL
	e.LastScraped = now
	e.UpdatedAt = now
}

// Bounds is the map rectangle used for area search.
type Bounds struct {
	SouthWest Coordinates `json:"southWest"`
	NorthEast Coordinates `json:"northEast"`
}

func (b Bounds) Contains(c Coordinates) bool {
	return c[0] >= b.SouthWest[0] && c[0] <= b.NorthEast[0] &&
		c[1] >= b.SouthWest[1] && c[1] <= b.NorthEast[1]
}

// EventFilters are combined with AND; zero values mean no restriction.
type EventFilters struct {
	Categories  []Category `json:"categories"`
	SearchQuery string     `json:"searchQuery"`
	Bounds      *Bounds    `json:"bounds,omitempty"`
}

// SourceReport summarises what one scraper contributed to a run.
type SourceReport struct {
	Source     string `json:"source"`
	Candidates int    `json:"candidates"`
	New        int    `json:"new"`
	Updated    int    `json:"updated"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
}

type RunReport struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Sources    []SourceReport `json:"sources"`
	New        int            `json:"new"`
	Updated    int            `json:"updated"`
	Failed     int            `json:"failed"`
	Deleted    int64          `json:"deleted"`
}

type ScrapingStatus struct {
	TotalEvents    int64      `json:"totalEvents"`
	RecentEvents   int64      `json:"recentEvents"`
	LastScrapeTime *time.Time `json:"lastScrapeTime"`
	IsRunning      bool       `json:"isRunning"`
	LastRun        *RunReport `json:"lastRun,omitempty"`
}
