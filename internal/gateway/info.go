package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// infoPath はHyperliquid APIのinfoエンドポイントのパス。
const infoPath = "/info"

// defaultCandleInterval はintervalが指定されなかった場合のローソク足の間隔。
const defaultCandleInterval = "1h"

// invalidAddressMessage はアドレスの形式が不正な場合にクライアントへ返すメッセージ。
const invalidAddressMessage = "Invalid address format"

// errInvalidAddress はアドレスの形式が不正であることを表す。
var errInvalidAddress = errors.New("invalid address format")

// InfoType はinfoエンドポイントへのリクエスト種別（判別子）を表す。
type InfoType string

const (
	// InfoTypeMeta は取引可能な銘柄のメタデータを取得する。
	InfoTypeMeta InfoType = "meta"
	// InfoTypeAllMids は全銘柄の仲値を取得する。
	InfoTypeAllMids InfoType = "allMids"
	// InfoTypeClearinghouseState はユーザーの口座・ポジションの状態を取得する。
	InfoTypeClearinghouseState InfoType = "clearinghouseState"
	// InfoTypeUserFills はユーザーの約定履歴を取得する。
	InfoTypeUserFills InfoType = "userFills"
	// InfoTypeCandleSnapshot は銘柄のローソク足を取得する。
	InfoTypeCandleSnapshot InfoType = "candleSnapshot"
)

// InfoRequest はinfoエンドポイントに送るリクエストボディ。
type InfoRequest struct {
	// Type はリクエスト種別。
	Type InfoType `json:"type"`
	// User は小文字化されたユーザーアドレス。ユーザー単位のリクエストでのみ設定する。
	User string `json:"user,omitempty"`
	// Req はローソク足リクエストの条件。candleSnapshotでのみ設定する。
	Req *CandleRequest `json:"req,omitempty"`
}

// CandleRequest はローソク足リクエストの条件。
type CandleRequest struct {
	// Coin は銘柄名（例: "BTC"）。
	Coin string `json:"coin"`
	// Interval は足の間隔（例: "1h"）。
	Interval string `json:"interval"`
	// StartTime は取得開始時刻（UNIXミリ秒）。
	StartTime *int64 `json:"startTime,omitempty"`
	// EndTime は取得終了時刻（UNIXミリ秒）。
	EndTime *int64 `json:"endTime,omitempty"`
}

// InfoClient はinfoエンドポイントを呼び出すクライアント。
// httpclient.Client が満たす。テストでは差し替えられる。
type InfoClient interface {
	PostJSON(ctx context.Context, path string, body any, result any) error
}

// requestBuilder は受信リクエストからinfoエンドポイントへのリクエストボディを組み立てる。
type requestBuilder func(c *gin.Context) (InfoRequest, error)

// infoRoute は公開ルートとリクエストボディの組み立て方の対応。
type infoRoute struct {
	// path はGinのルートパターン。
	path string
	// build はリクエストボディを組み立てる関数。
	build requestBuilder
}

// infoRoutes はアップストリームへプロキシするルートの一覧。
var infoRoutes = []infoRoute{
	{path: "/api/meta", build: staticRequest(InfoTypeMeta)},
	{path: "/api/prices", build: staticRequest(InfoTypeAllMids)},
	{path: "/api/user/:address", build: userRequest(InfoTypeClearinghouseState)},
	{path: "/api/fills/:address", build: userRequest(InfoTypeUserFills)},
	{path: "/api/candles/:coin", build: candleRequest},
}

// staticRequest はパラメータを持たないリクエストボディを組み立てる関数を返す。
func staticRequest(t InfoType) requestBuilder {
	return func(_ *gin.Context) (InfoRequest, error) {
		return InfoRequest{Type: t}, nil
	}
}

// addressParam はパスパラメータのアドレス。
// "0x" で始まる42文字（0x + 16進数40文字）である必要がある。
type addressParam struct {
	Address string `uri:"address" binding:"required,startswith=0x,len=42"`
}

// userRequest はユーザーアドレスを検証し、小文字化したアドレスを持つリクエストボディを組み立てる関数を返す。
func userRequest(t InfoType) requestBuilder {
	return func(c *gin.Context) (InfoRequest, error) {
		var p addressParam
		if err := c.ShouldBindUri(&p); err != nil {
			return InfoRequest{}, errInvalidAddress
		}
		return InfoRequest{Type: t, User: strings.ToLower(p.Address)}, nil
	}
}

// candleRequest はローソク足のリクエストボディを組み立てる。
// start_time / end_time は省略可能だが、指定された場合は整数である必要がある。
func candleRequest(c *gin.Context) (InfoRequest, error) {
	startTime, err := optionalInt(c, "start_time")
	if err != nil {
		return InfoRequest{}, err
	}
	endTime, err := optionalInt(c, "end_time")
	if err != nil {
		return InfoRequest{}, err
	}

	return InfoRequest{
		Type: InfoTypeCandleSnapshot,
		Req: &CandleRequest{
			Coin:      c.Param("coin"),
			Interval:  c.DefaultQuery("interval", defaultCandleInterval),
			StartTime: startTime,
			EndTime:   endTime,
		},
	}, nil
}

// optionalInt はクエリパラメータを整数として読み取る。
// パラメータが無い、または空の場合はnilを返す。
func optionalInt(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}
