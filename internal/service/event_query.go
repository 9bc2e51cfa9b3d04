package service

import (
	"context"
	"time"

	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"

	"gorm.io/gorm"
)

type VenueView struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	URL     string `json:"url,omitempty"`
}

type CompetitorView struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	GivenName   string    `json:"given_name,omitempty"`
	FamilyName  string    `json:"family_name,omitempty"`
	NickName    string    `json:"nick_name,omitempty"`
	BirthDate   time.Time `json:"birth_date"`
	Nationality string    `json:"nationality,omitempty"`
	Image       string    `json:"image,omitempty"`
	URL         string    `json:"url,omitempty"`
}

type FightView struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	URL         string            `json:"url,omitempty"`
	Image       string            `json:"image,omitempty"`
	Competitors []*CompetitorView `json:"competitors"`
}

// EventView 赛事列表/详情返回结构；Fights 只在详情中填充
type EventView struct {
	ID          uint64       `json:"id"`
	Date        time.Time    `json:"date"`
	LocalDate   string       `json:"local_date,omitempty"`
	Description string       `json:"description,omitempty"`
	EventURL    string       `json:"event_url,omitempty"`
	EventImage  string       `json:"event_image,omitempty"`
	Venue       *VenueView   `json:"venue,omitempty"`
	Fights      []*FightView `json:"fights,omitempty"`
}

type EventPage struct {
	Items    []*EventView `json:"items"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// EventQueryService 只读查询
type EventQueryService struct {
	events      repository.EventRepository
	fights      repository.FightRepository
	competitors repository.CompetitorRepository
}

func NewEventQueryService(db *gorm.DB) *EventQueryService {
	return &EventQueryService{
		events:      repository.NewEventRepository(db),
		fights:      repository.NewFightRepository(db),
		competitors: repository.NewCompetitorRepository(db),
	}
}

func (s *EventQueryService) ListEvents(ctx context.Context, page, pageSize int) (*EventPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	events, total, err := s.events.ListEvents(dbctx.New(ctx), page, pageSize)
	if err != nil {
		return nil, err
	}
	items := make([]*EventView, 0, len(events))
	for _, e := range events {
		items = append(items, toEventView(e))
	}
	return &EventPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetEvent 返回赛事详情（场馆、对决及按顺序排列的选手），不存在返回 nil, nil
func (s *EventQueryService) GetEvent(ctx context.Context, id uint64) (*EventView, error) {
	dbc := dbctx.New(ctx)
	e, err := s.events.GetByID(dbc, id)
	if err != nil || e == nil {
		return nil, err
	}
	view := toEventView(e)

	fights, err := s.fights.ListByEvent(dbc, e.ID)
	if err != nil {
		return nil, err
	}
	view.Fights = make([]*FightView, 0, len(fights))
	for _, f := range fights {
		competitors, err := s.competitors.ListByFight(dbc, f.ID)
		if err != nil {
			return nil, err
		}
		fv := &FightView{
			ID:          f.ID,
			Title:       f.Title,
			Description: f.Description,
			URL:         f.URL,
			Image:       f.Image,
			Competitors: make([]*CompetitorView, 0, len(competitors)),
		}
		for _, c := range competitors {
			fv.Competitors = append(fv.Competitors, &CompetitorView{
				ID:          c.ID,
				Name:        c.Name,
				GivenName:   c.GivenName,
				FamilyName:  c.FamilyName,
				NickName:    c.NickName,
				BirthDate:   c.BirthDate,
				Nationality: c.Nationality,
				Image:       c.Image,
				URL:         c.URL,
			})
		}
		view.Fights = append(view.Fights, fv)
	}
	return view, nil
}

func toEventView(e *model.Event) *EventView {
	v := &EventView{ID: e.ID, Date: e.Date, LocalDate: e.LocalDate, Description: e.Description}
	if e.EventURL != nil {
		v.EventURL = *e.EventURL
	}
	if e.EventImage != nil {
		v.EventImage = *e.EventImage
	}
	if e.Venue != nil {
		v.Venue = &VenueView{ID: e.Venue.ID, Name: e.Venue.Name, Address: e.Venue.Address, URL: e.Venue.URL}
	}
	return v
}
