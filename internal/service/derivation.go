package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"FightSync/internal/model"
)

// BuildEventURL 由赛事日期生成页面URL：<base><月份全称小写>-<两位日>-<年>
func BuildEventURL(base string, date time.Time) string {
	date = date.UTC()
	return fmt.Sprintf("%s%s-%02d-%d", base, strings.ToLower(date.Month().String()), date.Day(), date.Year())
}

// EventURLDate 优先使用来源时区下的日期，缺失时退回 UTC 日期
func EventURLDate(e *model.Event) time.Time {
	if e.LocalDate != "" {
		if d, err := time.Parse(model.LocalDateLayout, e.LocalDate); err == nil {
			return d
		}
	}
	return e.Date.UTC()
}

// ChooseEventImage 从赛事下各对决的图片中选出赛事图片（images 为存储顺序，空值忽略）：
// 只有一张时直接使用；有出现 ≥2 次的图片时取出现次数最多的（并列取最先出现）；否则取第一张
func ChooseEventImage(images []string) (string, bool) {
	var (
		order  []string
		counts = make(map[string]int)
	)
	for _, img := range images {
		if img == "" {
			continue
		}
		if _, ok := counts[img]; !ok {
			order = append(order, img)
		}
		counts[img]++
	}
	if len(order) == 0 {
		return "", false
	}

	best, bestCount := "", 1
	for _, img := range order {
		if counts[img] > bestCount {
			best, bestCount = img, counts[img]
		}
	}
	if best != "" {
		return best, true
	}
	return order[0], true
}

// ImageVariants 选手图片派生结果；无序号后缀时 NoIndex 字段为空
type ImageVariants struct {
	FullBody        string
	BioNoIndex      string
	FullBodyNoIndex string
}

// ImageVariantDeriver 按图床命名约定（如 BioImage_Davis_1.jpg）派生全身图与去序号图
type ImageVariantDeriver struct {
	bioMarker      string
	fullBodyMarker string
	indexed        *regexp.Regexp
}

func NewImageVariantDeriver(bioMarker, fullBodyMarker string) *ImageVariantDeriver {
	return &ImageVariantDeriver{
		bioMarker:      bioMarker,
		fullBodyMarker: fullBodyMarker,
		indexed:        regexp.MustCompile(`(` + regexp.QuoteMeta(bioMarker) + `[_-].+?)([_-]\d+)(\.\w+)$`),
	}
}

// Derive 不含标记的URL返回 false，调用方保持字段为空
func (d *ImageVariantDeriver) Derive(url string) (ImageVariants, bool) {
	if d.bioMarker == "" || url == "" || !strings.Contains(url, d.bioMarker) {
		return ImageVariants{}, false
	}
	v := ImageVariants{FullBody: strings.ReplaceAll(url, d.bioMarker, d.fullBodyMarker)}

	loc := d.indexed.FindStringSubmatchIndex(url)
	if loc == nil {
		return v, true
	}
	prefix := url[:loc[0]]
	base := url[loc[2]:loc[3]]
	ext := url[loc[6]:loc[7]]
	v.BioNoIndex = prefix + base + ext
	v.FullBodyNoIndex = strings.ReplaceAll(v.BioNoIndex, d.bioMarker, d.fullBodyMarker)
	return v, true
}

// StandardFightTitle 生成 "Given Family vs. Given Family"；姓名不全时返回 false
func StandardFightTitle(a, b *model.Competitor) (string, bool) {
	if a == nil || b == nil {
		return "", false
	}
	if a.GivenName == "" || a.FamilyName == "" || b.GivenName == "" || b.FamilyName == "" {
		return "", false
	}
	return fmt.Sprintf("%s %s vs. %s %s", a.GivenName, a.FamilyName, b.GivenName, b.FamilyName), true
}
