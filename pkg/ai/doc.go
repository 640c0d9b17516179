// Package ai はOpenAI互換のチャット補完APIを呼び出すクライアントを提供する。
//
// 睡眠スケジュールのAI推薦など、プロンプトを渡して
// 生成テキストを受け取る用途で使用する。リトライやキャッシュは行わない。
package ai
