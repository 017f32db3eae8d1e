// Package paper assembles the parts of an edition that sit outside the
// aggregation core: the masthead metadata, the fictional Gensokyo weather
// almanac, and the classifieds column.
package paper

import (
	"fmt"
	"time"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

// Version is the snapshot schema version.
const Version = "1.0.0"

// BuildMeta returns the masthead for the edition dated by now.
func BuildMeta(now time.Time) news.Meta {
	return news.Meta{
		Title:       "幻想乡日报",
		TitleJP:     "幻想郷日報",
		Subtitle:    "Gensokyo Daily",
		Edition:     fmt.Sprintf("第%s期", now.UTC().Format("20060102")),
		UpdatedAt:   now.UTC(),
		GeneratedBy: "射命丸文 & GitHub Actions",
		Version:     Version,
	}
}

// Classifieds returns the standing fictional ads printed in every edition.
func Classifieds() []news.Ad {
	return []news.Ad{
		{
			ID:          "ad_kappa",
			Title:       "河童重工 最新科技",
			Subtitle:    "光学迷彩、等离子炮、自动钓鱼机",
			Description: "河城荷取领衔研发！妖怪山河童工业联合体，为您提供最前沿的幻想科技。来料加工、定制弹幕系统，欢迎咨询。",
			Contact:     "妖怪山瀑布旁 河童工坊",
			Icon:        "🔧",
		},
		{
			ID:          "ad_eientei",
			Title:       "永远亭 特供药剂",
			Subtitle:    "八意永琳监制 · 蓬莱之药除外",
			Description: "感冒灵、跌打丸、弹幕创伤速愈膏……月之头脑为您守护每一天的健康。本月特惠：蝴蝶梦丸（80文/粒）。",
			Contact:     "迷途竹林深处 永远亭药局",
			Icon:        "💊",
		},
		{
			ID:          "ad_kourindou",
			Title:       "香霖堂 古道具店",
			Subtitle:    "森近霖之助 · 外界道具专营",
			Description: "本店经营各类外界流入品：Game Boy、打火机、不明用途的塑料板……识货的客官请进。不议价。",
			Contact:     "魔法森林入口处",
			Icon:        "🏪",
		},
		{
			ID:          "ad_moriya",
			Title:       "守矢神社 御守特卖",
			Subtitle:    "信仰充值 · 有求必应",
			Description: "新年限定御守上架！学业成就、恋爱成就、弹幕回避……诹访子大人亲自加持，信仰值翻倍。参拜即送蛙形饼干。",
			Contact:     "妖怪山山顶 守矢神社",
			Icon:        "⛩️",
		},
	}
}
