package service

import (
	"FightSync/internal/model"
	"FightSync/internal/repository"
	"FightSync/internal/utils/dbctx"
)

// Linker 将已解析的选手挂到对决上
type Linker struct {
	fights repository.FightRepository
}

func NewLinker(fights repository.FightRepository) *Linker {
	return &Linker{fights: fights}
}

// Link 把对决的选手集合整体设为 competitors（后调用者胜），保留输入顺序；
// 同一选手重复出现时只保留第一次
func (l *Linker) Link(dbc dbctx.Context, fight *model.Fight, competitors []*model.Competitor) error {
	if fight == nil || fight.ID == 0 {
		return model.NewValidationError("fight_id", "为必填字段")
	}
	ids := make([]uint64, 0, len(competitors))
	seen := make(map[uint64]struct{}, len(competitors))
	for _, c := range competitors {
		if c == nil {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		ids = append(ids, c.ID)
	}
	return l.fights.ReplaceCompetitors(dbc, fight.ID, ids)
}
