// Package seed holds the starter catalogue of bilingual practice tests.
package seed

import (
	"context"
	"fmt"

	"github.com/lshigami/Bilim/internal/model"
	"github.com/lshigami/Bilim/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type question struct {
	text    string
	options []string
	correct int
	diff    string
}

type test struct {
	title, description, subject, difficulty, language string
	questions                                         []question
}

var catalogue = []test{
	{
		title: "ЕНТ Математика: базовый уровень", subject: "math", difficulty: "easy", language: "ru",
		description: "Арифметика, проценты и простые уравнения.",
		questions: []question{
			{"Сколько будет 15% от 200?", []string{"15", "30", "20", "35"}, 1, "easy"},
			{"Решите уравнение 3x + 5 = 20.", []string{"x = 5", "x = 15", "x = 3", "x = 25/3"}, 0, "easy"},
			{"Чему равен квадратный корень из 144?", []string{"14", "11", "12", "13"}, 2, "easy"},
			{"Сумма углов треугольника равна", []string{"90°", "180°", "270°", "360°"}, 1, "easy"},
			{"Чему равно 2 в степени 10?", []string{"512", "1000", "1024", "2048"}, 2, "medium"},
		},
	},
	{
		title: "ҰБТ Математика: негізгі деңгей", subject: "math", difficulty: "easy", language: "kk",
		description: "Арифметика, пайыздар және қарапайым теңдеулер.",
		questions: []question{
			{"200-дің 15%-ы неге тең?", []string{"15", "30", "20", "35"}, 1, "easy"},
			{"3x + 5 = 20 теңдеуін шешіңіз.", []string{"x = 5", "x = 15", "x = 3", "x = 25/3"}, 0, "easy"},
			{"144-тің квадрат түбірі неге тең?", []string{"14", "11", "12", "13"}, 2, "easy"},
			{"Үшбұрыш бұрыштарының қосындысы", []string{"90°", "180°", "270°", "360°"}, 1, "easy"},
			{"2-нің 10-дәрежесі неге тең?", []string{"512", "1000", "1024", "2048"}, 2, "medium"},
		},
	},
	{
		title: "ЕНТ История Казахстана", subject: "history", difficulty: "medium", language: "ru",
		questions: []question{
			{"В каком году Казахстан обрёл независимость?", []string{"1989", "1991", "1993", "1995"}, 1, "easy"},
			{"Кто основал Казахское ханство?", []string{"Абылай и Кенесары", "Керей и Жанибек", "Тауке и Есим", "Касым и Хакназар"}, 1, "medium"},
			{"В каком году столица была перенесена в Акмолу?", []string{"1994", "1997", "2000", "1991"}, 1, "medium"},
			{"Автор «Слов назидания»", []string{"Ыбырай Алтынсарин", "Шокан Уалиханов", "Абай Кунанбаев", "Мухтар Ауэзов"}, 2, "easy"},
		},
	},
	{
		title: "ҰБТ Қазақстан тарихы", subject: "history", difficulty: "medium", language: "kk",
		questions: []question{
			{"Қазақстан тәуелсіздігін қай жылы алды?", []string{"1989", "1991", "1993", "1995"}, 1, "easy"},
			{"Қазақ хандығының негізін кім қалады?", []string{"Абылай мен Кенесары", "Керей мен Жәнібек", "Тәуке мен Есім", "Қасым мен Хақназар"}, 1, "medium"},
			{"Астана Ақмолаға қай жылы көшірілді?", []string{"1994", "1997", "2000", "1991"}, 1, "medium"},
			{"«Қара сөздердің» авторы", []string{"Ыбырай Алтынсарин", "Шоқан Уәлиханов", "Абай Құнанбайұлы", "Мұхтар Әуезов"}, 2, "easy"},
		},
	},
	{
		title: "ЕНТ Физика: механика", subject: "physics", difficulty: "hard", language: "ru",
		questions: []question{
			{"Тело падает без начальной скорости 2 с. Какую скорость оно наберёт (g = 10 м/с²)?", []string{"10 м/с", "20 м/с", "40 м/с", "5 м/с"}, 1, "medium"},
			{"Единица измерения силы в СИ", []string{"Джоуль", "Ватт", "Ньютон", "Паскаль"}, 2, "easy"},
			{"Импульс тела массой 2 кг при скорости 3 м/с равен", []string{"6 кг·м/с", "9 кг·м/с", "1,5 кг·м/с", "5 кг·м/с"}, 0, "hard"},
		},
	},
}

// Tests returns the catalogue as models ready to be stored.
func Tests() []model.Test {
	out := make([]model.Test, 0, len(catalogue))
	for _, t := range catalogue {
		m := model.Test{
			Title:       t.title,
			Description: t.description,
			Subject:     t.subject,
			Difficulty:  t.difficulty,
			Language:    t.language,
		}
		for i, q := range t.questions {
			m.Questions = append(m.Questions, model.Question{
				Text:               q.text,
				Options:            q.options,
				CorrectAnswerIndex: q.correct,
				Subject:            t.subject,
				Difficulty:         q.diff,
				OrderInTest:        i + 1,
			})
		}
		out = append(out, m)
	}
	return out
}

// Load stores every catalogue test whose title is not taken yet. Running it
// twice is harmless.
func Load(ctx context.Context, db *gorm.DB, tests repository.TestRepository) (created, skipped int, err error) {
	for _, t := range Tests() {
		var n int64
		if err := db.WithContext(ctx).Model(&model.Test{}).Where("title = ?", t.Title).Count(&n).Error; err != nil {
			return created, skipped, fmt.Errorf("checking %q: %w", t.Title, err)
		}
		if n > 0 {
			skipped++
			continue
		}
		for i := range t.Questions {
			if err := t.Questions[i].ToQuiz().Validate(); err != nil {
				return created, skipped, fmt.Errorf("%q question %d: %w", t.Title, i+1, err)
			}
		}
		if err := tests.Create(ctx, &t); err != nil {
			return created, skipped, fmt.Errorf("storing %q: %w", t.Title, err)
		}
		log.Info().Uint("testID", t.ID).Str("title", t.Title).Msg("Seeded test")
		created++
	}
	return created, skipped, nil
}
