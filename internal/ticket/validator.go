// Package ticket は販売チケットの照合を提供する。
package ticket

import "github.com/jpyrsa/facturador/internal/model"

// Validate は入力された申告値を参照レコード群と照合する。
// 4項目（販売日・フォリオ・販売ID・合計金額）が全て文字列として
// 完全一致するレコードが1件でもあれば有効と判定する。
// 正規化や数値比較は行わない。"500.00"と"500.0"は一致しない。
func Validate(claim model.TicketClaim, records []model.TicketRecord) bool {
	for _, record := range records {
		if claim.SaleDate == record.SaleDate &&
			claim.SaleFolio == record.SaleFolio &&
			claim.SaleID == record.SaleID &&
			claim.Total == record.Total {
			return true
		}
	}
	return false
}
