package model

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// RawRecord 抓取/导出的原始对决记录（每条一场对决），字段名与来源站点保持一致
type RawRecord struct {
	Title            string          `json:"title" validate:"required"`
	Description      string          `json:"description"`
	Date             string          `json:"date" validate:"required"` // ISO-8601
	URL              string          `json:"url"`
	Image            string          `json:"image"`
	Location         *RawLocation    `json:"location" validate:"required"`
	EventDescription string          `json:"eventDescription"`
	Competitors      []RawCompetitor `json:"competitors" validate:"dive"`

	decodeErr error
}

// RawLocation 原始场馆信息
type RawLocation struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	SameAs  string `json:"sameAs"`
}

// RawCompetitor 原始选手信息；weight/height/workLocation 缺失视为校验失败
type RawCompetitor struct {
	Name           string           `json:"name" validate:"required"`
	GivenName      string           `json:"givenName"`
	FamilyName     string           `json:"familyName"`
	BirthDate      string           `json:"birthDate" validate:"required"` // ISO-8601
	BirthPlace     string           `json:"birthPlace"`
	Nationality    string           `json:"nationality"`
	AdditionalName string           `json:"additionalName"`
	Image          string           `json:"image"`
	URL            string           `json:"url"`
	Description    string           `json:"description"`
	Weight         *RawMeasure      `json:"weight" validate:"required"`
	Height         *RawMeasure      `json:"height" validate:"required"`
	WorkLocation   *RawWorkLocation `json:"workLocation" validate:"required"`
}

// RawMeasure 数值+单位；value 兼容数字与数字字符串
type RawMeasure struct {
	Value    *float64 `json:"value"`
	UnitText string   `json:"unitText"`
}

// RawWorkLocation 选手"出战地"
type RawWorkLocation struct {
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
}

func (m *RawMeasure) UnmarshalJSON(data []byte) error {
	var aux struct {
		Value    json.RawMessage `json:"value"`
		UnitText string          `json:"unitText"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := parseFlexFloat(aux.Value)
	if err != nil {
		return err
	}
	m.Value = v
	m.UnitText = aux.UnitText
	return nil
}

func parseFlexFloat(raw json.RawMessage) (*float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("非法数值 %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("非法数值 %s: %w", s, err)
	}
	return &f, nil
}

// Record 校验通过后的强类型记录，所有必填字段均已就绪
type Record struct {
	Title            string
	Description      string
	Date             time.Time
	LocalDate        string // 来源时区下的日期，YYYY-MM-DD
	URL              string
	Image            string
	Venue            VenueInput
	EventDescription string
	Competitors      []CompetitorInput
}

// VenueInput 场馆属性
type VenueInput struct {
	Name    string
	Address string
	URL     string
}

// CompetitorInput 选手属性
type CompetitorInput struct {
	Name         string
	GivenName    string
	FamilyName   string
	BirthDate    time.Time
	BirthPlace   string
	Nationality  string
	NickName     string
	Image        string
	URL          string
	Description  string
	WeightValue  *float64
	WeightUnit   string
	HeightValue  *float64
	HeightUnit   string
	City         string
	State        string
	WorkLocation []byte
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeRecords 解析 JSON 数组；单条记录解析失败不影响其他记录，失败原因在 Normalize 时以 ValidationError 返回
func DecodeRecords(data []byte) ([]*RawRecord, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("解析记录数组失败: %w", err)
	}
	records := make([]*RawRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, DecodeRawRecord(doc))
	}
	return records, nil
}

// DecodeRawRecord 解析单条记录，总是返回非 nil
func DecodeRawRecord(data []byte) *RawRecord {
	var r RawRecord
	if err := json.Unmarshal(data, &r); err != nil {
		var probe struct {
			Title string `json:"title"`
		}
		_ = json.Unmarshal(data, &probe)
		return &RawRecord{Title: probe.Title, decodeErr: err}
	}
	return &r
}

// Normalize 在任何实体解析之前一次性校验整条记录
func (r *RawRecord) Normalize() (*Record, error) {
	if r == nil {
		return nil, NewValidationError("", "记录为空")
	}
	if r.decodeErr != nil {
		return nil, NewValidationError("", "JSON解析失败: "+r.decodeErr.Error())
	}
	r.trim()
	if err := validate.Struct(r); err != nil {
		return nil, toValidationError(err)
	}

	local, err := parseWallClock(r.Date)
	if err != nil {
		return nil, NewValidationError("date", "无法解析的时间: "+r.Date)
	}
	rec := &Record{
		Title:       r.Title,
		Description: r.Description,
		Date:        local.UTC(),
		LocalDate:   local.Format(LocalDateLayout),
		URL:         r.URL,
		Image:       r.Image,
		Venue: VenueInput{
			Name:    r.Location.Name,
			Address: r.Location.Address,
			URL:     r.Location.SameAs,
		},
		EventDescription: r.EventDescription,
		Competitors:      make([]CompetitorInput, 0, len(r.Competitors)),
	}
	for i, c := range r.Competitors {
		birth, err := ParseTimestamp(c.BirthDate)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("competitors[%d].birthDate", i), "无法解析的时间: "+c.BirthDate)
		}
		workLocation, err := json.Marshal(c.WorkLocation)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("competitors[%d].workLocation", i), err.Error())
		}
		rec.Competitors = append(rec.Competitors, CompetitorInput{
			Name:         c.Name,
			GivenName:    c.GivenName,
			FamilyName:   c.FamilyName,
			BirthDate:    birth,
			BirthPlace:   c.BirthPlace,
			Nationality:  c.Nationality,
			NickName:     c.AdditionalName,
			Image:        c.Image,
			URL:          c.URL,
			Description:  c.Description,
			WeightValue:  c.Weight.Value,
			WeightUnit:   c.Weight.UnitText,
			HeightValue:  c.Height.Value,
			HeightUnit:   c.Height.UnitText,
			City:         c.WorkLocation.AddressLocality,
			State:        c.WorkLocation.AddressRegion,
			WorkLocation: workLocation,
		})
	}
	return rec, nil
}

func (r *RawRecord) trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Date = strings.TrimSpace(r.Date)
	if r.Location != nil {
		r.Location.Name = strings.TrimSpace(r.Location.Name)
		r.Location.Address = strings.TrimSpace(r.Location.Address)
		r.Location.SameAs = strings.TrimSpace(r.Location.SameAs)
	}
	for i := range r.Competitors {
		c := &r.Competitors[i]
		c.Name = strings.TrimSpace(c.Name)
		c.GivenName = strings.TrimSpace(c.GivenName)
		c.FamilyName = strings.TrimSpace(c.FamilyName)
		c.BirthDate = strings.TrimSpace(c.BirthDate)
		if c.Weight != nil {
			c.Weight.UnitText = strings.TrimSpace(c.Weight.UnitText)
		}
		if c.Height != nil {
			c.Height.UnitText = strings.TrimSpace(c.Height.UnitText)
		}
	}
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewValidationError("", err.Error())
	}
	fe := verrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	if fe.Tag() == "required" {
		return NewValidationError(field, "为必填字段")
	}
	return NewValidationError(field, "不满足规则 "+fe.Tag())
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// LocalDateLayout Event.LocalDate 的格式
const LocalDateLayout = "2006-01-02"

// ParseTimestamp 解析 ISO-8601 时间；无时区的时间按 UTC 处理，结果统一为 UTC
func ParseTimestamp(s string) (time.Time, error) {
	t, err := parseWallClock(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseWallClock 保留输入中的时区偏移
func parseWallClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析的时间: %q", s)
}
