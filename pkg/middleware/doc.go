// Package middleware はGatewayサービスで使用するGinミドルウェアを提供する。
//
// CORS、パニックからの回復、リクエストIDの付与、アクセスログの出力を行う。
// どのミドルウェアもエラー時はJSON形式 {"error": "..."} で応答する。
package middleware
