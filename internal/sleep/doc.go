// Package sleep は睡眠スケジュールのドメインロジックを提供する。
//
// HH:mm形式の時刻解析、深夜をまたぐ睡眠時間の計算、
// AI推薦用プロンプトの組み立てを行う。
package sleep
