package seed

import "fmt"

type seedWord struct {
	term        string
	translation string
	example     string
}

// defaultSet is one seeded dictionary: its title, the difficulty applied to
// every word in it, and the word list.
type defaultSet struct {
	title      string
	difficulty int
	words      []seedWord
}

func defaultSets() []defaultSet {
	return []defaultSet{
		{title: "Легкий", difficulty: 1, words: beginnerWords},
		{title: "Средний", difficulty: 2, words: generatedWords(40, "word_%d", "слово_%d", "Example sentence %d.")},
		{title: "Сложный", difficulty: 3, words: generatedWords(80, "advanced_%d", "продвинутое_%d", "Advanced example %d.")},
	}
}

func generatedWords(n int, termFormat, translationFormat, exampleFormat string) []seedWord {
	words := make([]seedWord, n)
	for i := range words {
		words[i] = seedWord{
			term:        fmt.Sprintf(termFormat, i+1),
			translation: fmt.Sprintf(translationFormat, i+1),
			example:     fmt.Sprintf(exampleFormat, i+1),
		}
	}
	return words
}

var beginnerWords = []seedWord{
	{"apple", "яблоко", "I eat an apple every day."},
	{"dog", "собака", "The dog is very friendly."},
	{"cat", "кот", "The cat sleeps on the sofa."},
	{"water", "вода", "I drink water."},
	{"book", "книга", "This book is interesting."},
	{"sun", "солнце", "The sun is shining."},
	{"milk", "молоко", "I like warm milk."},
	{"car", "машина", "My car is new."},
	{"house", "дом", "This is my house."},
	{"friend", "друг", "My friend helps me."},
	{"red", "красный", "The apple is red."},
	{"blue", "синий", "The sky is blue."},
	{"green", "зеленый", "Grass is green."},
	{"school", "школа", "I go to school."},
	{"work", "работа", "I work every day."},
	{"food", "еда", "The food is tasty."},
	{"music", "музыка", "I listen to music."},
	{"phone", "телефон", "My phone is charging."},
	{"table", "стол", "The table is brown."},
	{"chair", "стул", "This chair is comfortable."},
	{"city", "город", "The city is big."},
	{"street", "улица", "The street is empty."},
	{"happy", "счастливый", "I feel happy today."},
	{"sad", "грустный", "He looks sad."},
	{"fast", "быстрый", "The car is fast."},
	{"slow", "медленный", "The turtle is slow."},
	{"big", "большой", "The house is big."},
	{"small", "маленький", "The cat is small."},
	{"today", "сегодня", "Today is a good day."},
	{"tomorrow", "завтра", "See you tomorrow."},
}
