// Package httpclient はアップストリームAPIとのHTTP通信を行うクライアントを提供する。
//
// Gatewayサービスが Hyperliquid の info エンドポイントを呼び出す際に使用する。
// JSONボディをPOSTし、レスポンスのJSONを呼び出し元へそのまま返す。
// リトライは行わず、1回の呼び出しの結果をそのまま返す。
package httpclient
