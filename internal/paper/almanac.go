package paper

import (
	"math/rand"
	"time"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
)

type location struct {
	name   string
	nameJP string
}

var locations = []location{
	{"博丽神社", "博麗神社"},
	{"人间之里", "人間の里"},
	{"红魔馆", "紅魔館"},
	{"白玉楼", "白玉楼"},
	{"永远亭", "永遠亭"},
	{"守矢神社", "守矢神社"},
	{"地灵殿", "地霊殿"},
	{"命莲寺", "命蓮寺"},
}

type condition struct {
	text string
	icon string
}

var conditions = []condition{
	{"晴", "☀️"},
	{"多云", "⛅"},
	{"阴", "☁️"},
	{"小雨", "🌦️"},
	{"雷阵雨", "⛈️"},
	{"弹幕暴风", "🌀"},
	{"妖雾", "🌫️"},
	{"花粉", "🌸"},
	{"异变中", "⚡"},
	{"红雾", "🌅"},
	{"雪", "❄️"},
	{"樱吹雪", "🌸"},
}

// Almanac invents today's weather for the usual Gensokyo locations. The rng
// is injected so editions are reproducible under test.
func Almanac(now time.Time, rng *rand.Rand) *news.Weather {
	forecasts := make([]news.Forecast, 0, len(locations))
	for _, loc := range locations {
		cond := conditions[rng.Intn(len(conditions))]
		forecasts = append(forecasts, news.Forecast{
			Location:    loc.name,
			LocationJP:  loc.nameJP,
			Condition:   cond.text,
			Icon:        cond.icon,
			Temperature: rng.Intn(41) - 5, // -5..35
		})
	}
	return &news.Weather{Updated: now.UTC(), Forecasts: forecasts}
}
