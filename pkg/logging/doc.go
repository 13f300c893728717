// Package logging はサービス全体で共有する構造化ロガーを提供する。
//
// go.uber.org/zap をラップし、設定値（ログレベル・出力形式）から
// ロガーを生成する。各コンポーネントは Named で子ロガーを切り出して使う。
package logging
