// Package config はGatewayサービスの設定を読み込む。
//
// すべての設定値は環境変数から読み込まれ、同名のロングフラグで上書きできる。
// 値が与えられない場合はデフォルト値を使用する。
package config
