// Package metrics はGatewayサービスのPrometheusメトリクスを提供する。
//
// 受信したHTTPリクエスト数と、アップストリーム（Hyperliquid API）への
// 呼び出し数・所要時間を記録し、/metrics でエクスポートする。
package metrics
