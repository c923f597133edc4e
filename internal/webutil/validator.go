package webutil

import (
	"log"
	"reflect"
	"strings"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/password"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// uni は en / ja のトランスレータを持つ。API のメッセージは英語が既定。
var uni *ut.UniversalTranslator

var fieldNameTranslations = map[string]string{
	"email":           "メールアドレス",
	"password":        "パスワード",
	"confirmPassword": "確認用パスワード",
	"token":           "トークン",
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := Validator.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
		return password.Validate(fl.Field().String()) == nil
	}); err != nil {
		log.Fatal(err)
	}

	english := en.New()
	uni = ut.New(english, english, ja.New())

	enTrans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(Validator, enTrans); err != nil {
		log.Fatal(err)
	}
	jaTrans, found := uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}
	if err := ja_translations.RegisterDefaultTranslations(Validator, jaTrans); err != nil {
		log.Fatal(err)
	}

	// en: ポリシー違反は password パッケージのメッセージをそのまま返す
	mustRegister(enTrans, "password_policy", "{0} does not meet the password policy", func(fe validator.FieldError) string {
		if err := password.Validate(fe.Value().(string)); err != nil {
			return err.Error()
		}
		return fe.Field() + " does not meet the password policy"
	})

	// ja: フィールド名も日本語にする
	jaMessages := map[string]string{
		"required":        "{0}は必須項目です。",
		"email":           "{0}は有効なメールアドレス形式ではありません。",
		"max":             "{0}は{1}文字以下で入力してください。",
		"password_policy": "{0}は8文字以上で、大文字、小文字、数字、記号をそれぞれ1文字以上含めてください。",
	}
	for tag, msg := range jaMessages {
		mustRegister(jaTrans, tag, msg, nil)
	}
}

// mustRegister は tag のメッセージを上書きする。custom が nil なら {0}=フィールド名, {1}=パラメータで組み立てる。
func mustRegister(trans ut.Translator, tag, msg string, custom func(fe validator.FieldError) string) {
	err := Validator.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, msg, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		if custom != nil {
			return custom(fe)
		}
		fieldName := fe.Field()
		if ut.Locale() == "ja" {
			if translated, ok := fieldNameTranslations[fieldName]; ok {
				fieldName = translated
			}
		}
		t, _ := ut.T(tag, fieldName, fe.Param())
		return t
	})
	if err != nil {
		log.Fatal(err)
	}
}

// TranslatorFor は Accept-Language ヘッダーからトランスレータを選ぶ。該当なしは英語。
func TranslatorFor(acceptLanguage string) ut.Translator {
	var locales []string
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		// ja-JP -> ja
		locales = append(locales, strings.ToLower(strings.SplitN(tag, "-", 2)[0]))
	}
	trans, _ := uni.FindTranslator(locales...)
	return trans
}

// NewValidationError は最初に失敗したフィールドを VALIDATION_ERROR に変換する
func NewValidationError(errs validator.ValidationErrors, trans ut.Translator) *model.AppError {
	first := errs[0]
	return model.NewAppError(
		model.CodeValidation,
		first.Translate(trans),
		first.Field(),
		model.ErrInvalidInput,
	)
}
