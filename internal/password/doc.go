// Package password はパスワードポリシーの検証と bcrypt によるハッシュ化を扱います。
//
// ポリシー: 8文字以上、英大文字・英小文字・数字・記号をそれぞれ1文字以上含む。
package password
