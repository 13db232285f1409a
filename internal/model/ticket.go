package model

// TicketClaim はユーザーが入力したチケットデータを表す。
// 検証のたびに入力から構築され、検証後は保持しない。
// 全フィールドは入力された文字列のまま比較されるためstringで保持する。
type TicketClaim struct {
	SaleDate  string
	SaleFolio string
	SaleID    string
	Total     string
}

// TicketRecord は既知の有効チケットの参照データを表す。
// 起動時に投入される読み取り専用データで、変更されることはない。
type TicketRecord struct {
	ID        string
	SaleDate  string
	SaleFolio string
	SaleID    string
	Total     string
}
