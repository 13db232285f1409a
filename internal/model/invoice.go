package model

import "time"

// Invoice は発行済みの請求書（factura）を表す。
// PDF/XMLの生成はこのサービスの範囲外であり、発行記録のみを保持する。
type Invoice struct {
	ID           string
	UserID       string
	FolioFiscal  string // 発行時に採番される請求書識別子
	SaleDate     string
	SaleFolio    string
	SaleID       string
	Total        string
	RFC          string // 納税者登録番号
	BusinessName string
	Email        string
	CreatedAt    time.Time
}
