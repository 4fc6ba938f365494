// Package model はドメインモデルを定義する。
package model

import "time"

// Comment はニュース記事に投稿されたコメントを表す。
// IDとCreatedAtはストアが挿入時に採番・設定する。
type Comment struct {
	ID          string    // ストアが採番するUUID。再利用されない
	ArticleID   string    // 親記事の識別子。記事カタログとの照合は行わない
	AuthorEmail string    // 作成時点のアイデンティティのメールアドレス。不変
	Text        string    // 本文。作成後は編集不可
	CreatedAt   time.Time // 挿入時にストアが設定する
	Redacted    bool      // 将来の部分マスキング用に予約。現在どの操作も設定しない
	Removed     bool      // モデレーターによるソフトデリート。false→trueの単調変化のみ
}
