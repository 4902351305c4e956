package schemainfo

import (
	"fmt"
	"strings"

	"github.com/koustreak/aam/internal/translate"
)

// Header is the first line of every block. The annotation patcher looks for
// it to find an existing block.
const Header = "== Schema Information =="

// messages holds the wording of one language. Suggested declarations are
// presentational: they are rendered text, never parsed back.
type messages struct {
	headers   []string
	title     string // model label, table, model
	remarks   string
	bullet    string
	separator string
	sti       string
	poly      string
	suffixes  []translate.Suffix

	missingIndex      string // table, table, index spec
	missingAssoc      string // model, declaration
	missingReciprocal string // target model, declaration
	reciprocalNote    func(owner, target, decl string) string
	missingColumn     string // declaration, column, table

	polymorphicOpt string
	foreignKeyOpt  string // column
}

var english = messages{
	headers:           []string{"name", "desc", "type", "opts", "refs", "index"},
	title:             "%s (%s as %s)",
	remarks:           "Remarks",
	separator:         " and ",
	sti:               "SpecificModel(STI)",
	poly:              "SpecificModel(polymorphic)",
	suffixes:          []translate.Suffix{translate.NewSuffix("id", " ID"), translate.NewSuffix("type", " type")},
	missingIndex:      "[Warning: Need to add index] Add add_index :%s, %s to the create_%s migration",
	missingAssoc:      "[Warning: Need to add relation] Add %s to the %s model",
	missingReciprocal: "[Warning: Missing relation] %s model does not declare %s",
	reciprocalNote: func(owner, target, decl string) string {
		return target + "." + decl
	},
	missingColumn:  "[Warning: Missing column] %s expects column %s in %s",
	polymorphicOpt: "polymorphic: true",
	foreignKeyOpt:  "foreign_key: :%s",
}

var japanese = messages{
	headers:           []string{"カラム名", "意味", "タイプ", "属性", "参照", "INDEX"},
	title:             "%sテーブル (%s as %s)",
	remarks:           "備考",
	bullet:            "・",
	separator:         " と ",
	sti:               "モデル名(STI)",
	poly:              "モデル名(polymorphic)",
	suffixes:          []translate.Suffix{translate.NewSuffix("id", "ID"), translate.NewSuffix("type", "タイプ")},
	missingIndex:      "【警告:インデックス欠如】create_%[3]s マイグレーションに add_index :%[1]s, %[2]s を追加してください",
	missingAssoc:      "【警告】%[2]s モデルに %[1]s を追加してください",
	missingReciprocal: "【警告:リレーション欠如】%sモデルで %s されていません",
	reciprocalNote: func(owner, target, decl string) string {
		return fmt.Sprintf("%s モデルは %s モデルから %s されています。", owner, target, decl)
	},
	missingColumn:  "【警告:カラム欠如】%s の外部キー %s が %s テーブルにありません",
	polymorphicOpt: ":polymorphic => true",
	foreignKeyOpt:  ":foreign_key => :%s",
}

func messagesFor(lang Language) *messages {
	if lang == Japanese {
		return &japanese
	}
	return &english
}

// declaration renders a suggested association declaration, e.g.
// "has_many :articles, foreign_key: :author_id".
func (m *messages) declaration(kind, name string, polymorphic bool, foreignKey string) string {
	parts := []string{kind + " :" + name}
	if polymorphic {
		parts = append(parts, m.polymorphicOpt)
	}
	if foreignKey != "" {
		parts = append(parts, fmt.Sprintf(m.foreignKeyOpt, foreignKey))
	}
	return strings.Join(parts, ", ")
}

func (m *messages) indexWarning(table, spec string) string {
	return fmt.Sprintf(m.missingIndex, table, spec, table)
}
