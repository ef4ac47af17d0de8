// Package format проверяет и готовит тексты, которые бот отправляет с parse_mode=HTML.
//
// CheckHTML: офлайн-проверка по правилам Telegram: только поддерживаемые теги,
// парные закрывающие теги в правильном порядке, экранированные '<' и '&',
// непустой текст не длиннее MaxMessageRunes.
package format

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// MaxMessageRunes: лимит Telegram на длину текста сообщения после разбора разметки.
const MaxMessageRunes = 4096

// SyntaxError: текст не будет принят Telegram.
type SyntaxError struct {
	Offset int // смещение в байтах исходного текста
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("позиция %d: %s", e.Offset, e.Msg)
}

// requiredAttr: тег → атрибут, без которого Telegram его не примет ("": атрибут не нужен).
var allowedTags = map[string]string{
	"b":          "",
	"strong":     "",
	"i":          "",
	"em":         "",
	"u":          "",
	"ins":        "",
	"s":          "",
	"strike":     "",
	"del":        "",
	"code":       "",
	"pre":        "",
	"blockquote": "",
	"tg-spoiler": "",
	"a":          "href",
	"span":       "class",
	"tg-emoji":   "emoji-id",
}

var entityRe = regexp.MustCompile(`^&(lt|gt|amp|quot|#[0-9]+|#[xX][0-9a-fA-F]+);`)

// CheckHTML проверяет text так, как его разобрал бы Telegram.
func CheckHTML(text string) error {
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		stack  []string
		offset int
		runes  int
		plain  strings.Builder
	)

	for {
		tt := z.Next()
		raw := z.Raw()
		pos := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return &SyntaxError{Offset: pos, Msg: z.Err().Error()}
			}
			if strings.TrimSpace(string(raw)) != "" {
				return &SyntaxError{Offset: pos, Msg: "незавершённый тег в конце текста"}
			}
			if len(stack) > 0 {
				return &SyntaxError{Offset: pos, Msg: fmt.Sprintf("тег <%s> не закрыт", stack[len(stack)-1])}
			}
			if strings.TrimSpace(plain.String()) == "" {
				return &SyntaxError{Offset: 0, Msg: "текст сообщения пуст"}
			}
			if runes > MaxMessageRunes {
				return &SyntaxError{Offset: 0, Msg: fmt.Sprintf("текст длиннее %d символов", MaxMessageRunes)}
			}
			return nil

		case html.TextToken:
			if err := checkText(raw, pos); err != nil {
				return err
			}
			txt := string(z.Text())
			runes += utf8.RuneCountInString(txt)
			plain.WriteString(txt)

		case html.StartTagToken:
			name, attrs := tagWithAttrs(z)
			if err := checkStartTag(name, attrs, pos); err != nil {
				return err
			}
			stack = append(stack, name)

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(stack) == 0 {
				return &SyntaxError{Offset: pos, Msg: fmt.Sprintf("лишний закрывающий тег </%s>", tag)}
			}
			if top := stack[len(stack)-1]; top != tag {
				return &SyntaxError{Offset: pos, Msg: fmt.Sprintf("ожидался </%s>, найден </%s>", top, tag)}
			}
			stack = stack[:len(stack)-1]

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			return &SyntaxError{Offset: pos, Msg: fmt.Sprintf("самозакрывающийся тег <%s/> не поддерживается", name)}

		case html.CommentToken:
			return &SyntaxError{Offset: pos, Msg: "комментарии не поддерживаются"}

		case html.DoctypeToken:
			return &SyntaxError{Offset: pos, Msg: "DOCTYPE не поддерживается"}
		}
	}
}

func tagWithAttrs(z *html.Tokenizer) (string, map[string]string) {
	name, hasAttr := z.TagName()
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return string(name), attrs
}

func checkStartTag(name string, attrs map[string]string, pos int) error {
	required, ok := allowedTags[name]
	if !ok {
		return &SyntaxError{Offset: pos, Msg: fmt.Sprintf("тег <%s> не поддерживается", name)}
	}
	if required == "" {
		return nil
	}
	val, ok := attrs[required]
	if !ok || val == "" {
		return &SyntaxError{Offset: pos, Msg: fmt.Sprintf("у тега <%s> нет атрибута %s", name, required)}
	}
	if name == "span" && val != "tg-spoiler" {
		return &SyntaxError{Offset: pos, Msg: "у <span> допустим только class=\"tg-spoiler\""}
	}
	return nil
}

// checkText ищет неэкранированные '<' и '&' вне поддерживаемых сущностей.
func checkText(raw []byte, pos int) error {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '<':
			return &SyntaxError{Offset: pos + i, Msg: "символ '<' нужно экранировать как &lt;"}
		case '&':
			if !entityRe.Match(raw[i:]) {
				return &SyntaxError{Offset: pos + i, Msg: "символ '&' нужно экранировать как &amp;"}
			}
		}
	}
	return nil
}

// Escape экранирует произвольный текст для вставки в HTML-сообщение.
func Escape(s string) string {
	return html.EscapeString(s)
}
