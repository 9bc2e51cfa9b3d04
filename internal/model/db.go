package model

import (
	"time"

	"gorm.io/datatypes"
)

// Venue 场馆。入库时仅按名称精确匹配判定为同一场馆，近似重复需人工合并
type Venue struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name      string    `gorm:"column:name;type:varchar(256);uniqueIndex:uq_venue_name;not null;comment:场馆名称"`
	Address   string    `gorm:"column:address;type:varchar(512);comment:地址"`
	URL       string    `gorm:"column:url;type:varchar(512);comment:参考链接(sameAs)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime;comment:更新时间"`
}

// Event 赛事（比赛之夜）。同一场馆同一时间只允许一条
type Event struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Date        time.Time `gorm:"column:date;not null;uniqueIndex:uq_event_date_venue,priority:1;comment:赛事时间(UTC)"`
	LocalDate   string    `gorm:"column:local_date;type:varchar(10);comment:来源时区下的赛事日期(YYYY-MM-DD)"`
	VenueID     uint64    `gorm:"column:venue_id;not null;uniqueIndex:uq_event_date_venue,priority:2;index;comment:关联场馆ID"`
	Description string    `gorm:"column:description;type:text;comment:赛事描述"`
	EventURL    *string   `gorm:"column:event_url;type:varchar(512);comment:派生的赛事页面URL"`
	EventImage  *string   `gorm:"column:event_image;type:varchar(512);comment:派生的赛事图片"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime;comment:更新时间"`

	Venue *Venue `gorm:"foreignKey:VenueID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Fight 单场对决。同一赛事下标题唯一
type Fight struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	EventID     uint64    `gorm:"column:event_id;not null;uniqueIndex:uq_fight_event_title,priority:1;comment:关联赛事ID"`
	Title       string    `gorm:"column:title;type:varchar(256);not null;uniqueIndex:uq_fight_event_title,priority:2;comment:对决标题"`
	Description string    `gorm:"column:description;type:text;comment:描述"`
	URL         string    `gorm:"column:url;type:varchar(512);comment:参考链接"`
	Image       string    `gorm:"column:image;type:varchar(512);comment:主图"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime;comment:更新时间"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Competitor 选手。(name, birth_date) 全局唯一
type Competitor struct {
	ID                 uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name               string         `gorm:"column:name;type:varchar(256);not null;uniqueIndex:uq_competitor_name_birth,priority:1;comment:全名"`
	BirthDate          time.Time      `gorm:"column:birth_date;not null;uniqueIndex:uq_competitor_name_birth,priority:2;comment:出生日期(UTC)"`
	GivenName          string         `gorm:"column:given_name;type:varchar(128);comment:名"`
	FamilyName         string         `gorm:"column:family_name;type:varchar(128);comment:姓"`
	BirthPlace         string         `gorm:"column:birth_place;type:varchar(256);comment:出生地"`
	Nationality        string         `gorm:"column:nationality;type:varchar(128);comment:国籍"`
	WeightValue        *float64       `gorm:"column:weight_value;comment:体重数值"`
	WeightUnit         string         `gorm:"column:weight_unit;type:varchar(32);comment:体重单位"`
	HeightValue        *float64       `gorm:"column:height_value;comment:身高数值"`
	HeightUnit         string         `gorm:"column:height_unit;type:varchar(32);comment:身高单位"`
	FightingOutOfCity  string         `gorm:"column:fighting_out_of_city;type:varchar(128);comment:出战城市"`
	FightingOutOfState string         `gorm:"column:fighting_out_of_state;type:varchar(128);comment:出战州/地区"`
	WorkLocation       datatypes.JSON `gorm:"column:work_location;comment:原始workLocation"`
	NickName           string         `gorm:"column:nick_name;type:varchar(128);comment:绰号"`
	Image              string         `gorm:"column:image;type:varchar(512);comment:头像"`
	BioImageNoIndex    *string        `gorm:"column:bio_image_no_index;type:varchar(512);comment:派生：去序号头像"`
	FullBodyImage      *string        `gorm:"column:full_body_image;type:varchar(512);comment:派生：全身图"`
	FullBodyNoIndex    *string        `gorm:"column:full_body_no_index;type:varchar(512);comment:派生：去序号全身图"`
	URL                string         `gorm:"column:url;type:varchar(512);comment:参考链接"`
	Description        string         `gorm:"column:description;type:text;comment:简介"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime;comment:更新时间"`
}

// FightCompetitor 对决与选手的多对多关联，position 保留输入顺序（仅用于展示）
type FightCompetitor struct {
	FightID      uint64 `gorm:"column:fight_id;primaryKey;autoIncrement:false;comment:对决ID"`
	CompetitorID uint64 `gorm:"column:competitor_id;primaryKey;autoIncrement:false;index;comment:选手ID"`
	Position     int    `gorm:"column:position;not null;default:0;comment:顺序"`

	Fight      *Fight      `gorm:"foreignKey:FightID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Competitor *Competitor `gorm:"foreignKey:CompetitorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// IngestRun 一次批量入库的审计记录
type IngestRun struct {
	ID         uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID    string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null"`
	Source     string         `gorm:"column:source;type:varchar(64)"`
	Total      int            `gorm:"column:total;not null;default:0"`
	Succeeded  int            `gorm:"column:succeeded;not null;default:0"`
	Skipped    int            `gorm:"column:skipped;not null;default:0"`
	Failed     int            `gorm:"column:failed;not null;default:0"`
	Outcomes   datatypes.JSON `gorm:"column:outcomes"`
	StartedAt  time.Time      `gorm:"column:started_at;not null"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null"`
}

func (Venue) TableName() string           { return "venues" }
func (Event) TableName() string           { return "events" }
func (Fight) TableName() string           { return "fights" }
func (Competitor) TableName() string      { return "competitors" }
func (FightCompetitor) TableName() string { return "fight_competitors" }
func (IngestRun) TableName() string       { return "ingest_runs" }

// AllModels 按依赖顺序返回需要迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&Venue{},
		&Event{},
		&Fight{},
		&Competitor{},
		&FightCompetitor{},
		&IngestRun{},
	}
}
