// Package gateway はTrade.xyzバックエンドのAPI Gatewayを提供する。
//
// 公開エンドポイントへのGETリクエストを、Hyperliquidのinfo APIへの
// POSTリクエスト（typeを判別子とするJSONボディ）に変換して1回だけ呼び出し、
// 返ってきたJSONをそのまま呼び出し元に返す。キャッシュや状態は持たない。
// アドレスの形式が不正な場合はアップストリームを呼び出さずに400を返す。
package gateway
