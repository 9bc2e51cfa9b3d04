package service

import (
	"time"

	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Resolver 按自然键查找或创建实体。命中时原样返回已有实体，不覆盖属性（先写者胜）。
// 查找与插入之间没有冲突重试，只在单写者前提下安全
type Resolver struct {
	venues      repository.VenueRepository
	events      repository.EventRepository
	fights      repository.FightRepository
	competitors repository.CompetitorRepository
	logger      *logrus.Logger
}

func NewResolver(
	venues repository.VenueRepository,
	events repository.EventRepository,
	fights repository.FightRepository,
	competitors repository.CompetitorRepository,
	logger *logrus.Logger,
) *Resolver {
	return &Resolver{
		venues:      venues,
		events:      events,
		fights:      fights,
		competitors: competitors,
		logger:      logger,
	}
}

// ResolveVenue 自然键：name
func (r *Resolver) ResolveVenue(dbc dbctx.Context, in model.VenueInput) (*model.Venue, bool, error) {
	if in.Name == "" {
		return nil, false, model.NewValidationError("location.name", "为必填字段")
	}
	existing, err := r.venues.FindByName(dbc, in.Name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	v := &model.Venue{Name: in.Name, Address: in.Address, URL: in.URL}
	if err := r.venues.Create(dbc, v); err != nil {
		return nil, false, err
	}
	r.logger.WithFields(logrus.Fields{"venue_id": v.ID, "name": v.Name}).Debug("新建场馆")
	return v, true, nil
}

// ResolveEvent 自然键：(date, venueID)；localDate 仅在新建时写入
func (r *Resolver) ResolveEvent(dbc dbctx.Context, date time.Time, localDate string, venueID uint64, description string) (*model.Event, bool, error) {
	if date.IsZero() {
		return nil, false, model.NewValidationError("date", "为必填字段")
	}
	if venueID == 0 {
		return nil, false, model.NewValidationError("venue_id", "为必填字段")
	}
	existing, err := r.events.FindByDateVenue(dbc, date, venueID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	e := &model.Event{Date: date.UTC(), LocalDate: localDate, VenueID: venueID, Description: description}
	if err := r.events.Create(dbc, e); err != nil {
		return nil, false, err
	}
	r.logger.WithFields(logrus.Fields{"event_id": e.ID, "venue_id": venueID, "date": e.Date}).Debug("新建赛事")
	return e, true, nil
}

// FindFight 只查找不创建，用于判定记录是否已入库
func (r *Resolver) FindFight(dbc dbctx.Context, eventID uint64, title string) (*model.Fight, error) {
	return r.fights.FindByEventTitle(dbc, eventID, title)
}

// ResolveFight 自然键：(eventID, title)
func (r *Resolver) ResolveFight(dbc dbctx.Context, eventID uint64, rec *model.Record) (*model.Fight, bool, error) {
	if eventID == 0 {
		return nil, false, model.NewValidationError("event_id", "为必填字段")
	}
	if rec.Title == "" {
		return nil, false, model.NewValidationError("title", "为必填字段")
	}
	existing, err := r.fights.FindByEventTitle(dbc, eventID, rec.Title)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	f := &model.Fight{
		EventID:     eventID,
		Title:       rec.Title,
		Description: rec.Description,
		URL:         rec.URL,
		Image:       rec.Image,
	}
	if err := r.fights.Create(dbc, f); err != nil {
		return nil, false, err
	}
	return f, true, nil
}

// ResolveCompetitor 自然键：(name, birthDate)
func (r *Resolver) ResolveCompetitor(dbc dbctx.Context, in model.CompetitorInput) (*model.Competitor, bool, error) {
	if in.Name == "" {
		return nil, false, model.NewValidationError("competitor.name", "为必填字段")
	}
	if in.BirthDate.IsZero() {
		return nil, false, model.NewValidationError("competitor.birthDate", "为必填字段")
	}
	existing, err := r.competitors.FindByNameBirth(dbc, in.Name, in.BirthDate)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	c := &model.Competitor{
		Name:               in.Name,
		BirthDate:          in.BirthDate.UTC(),
		GivenName:          in.GivenName,
		FamilyName:         in.FamilyName,
		BirthPlace:         in.BirthPlace,
		Nationality:        in.Nationality,
		WeightValue:        in.WeightValue,
		WeightUnit:         in.WeightUnit,
		HeightValue:        in.HeightValue,
		HeightUnit:         in.HeightUnit,
		FightingOutOfCity:  in.City,
		FightingOutOfState: in.State,
		WorkLocation:       datatypes.JSON(in.WorkLocation),
		NickName:           in.NickName,
		Image:              in.Image,
		URL:                in.URL,
		Description:        in.Description,
	}
	if err := r.competitors.Create(dbc, c); err != nil {
		return nil, false, err
	}
	r.logger.WithFields(logrus.Fields{"competitor_id": c.ID, "name": c.Name}).Debug("新建选手")
	return c, true, nil
}
