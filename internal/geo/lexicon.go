package geo

// Prefectures is the closed administrative lexicon: all 47 prefecture-level
// names in JIS X 0401 code order. The slice order defines match precedence
// when a message mentions more than one prefecture; it is not a geographic
// or alphabetical ranking. Never mutate or re-declare this list.
var Prefectures = []string{
	"北海道",
	"青森県", "岩手県", "宮城県", "秋田県", "山形県", "福島県",
	"茨城県", "栃木県", "群馬県", "埼玉県", "千葉県", "東京都", "神奈川県",
	"新潟県", "富山県", "石川県", "福井県", "山梨県", "長野県",
	"岐阜県", "静岡県", "愛知県", "三重県",
	"滋賀県", "京都府", "大阪府", "兵庫県", "奈良県", "和歌山県",
	"鳥取県", "島根県", "岡山県", "広島県", "山口県",
	"徳島県", "香川県", "愛媛県", "高知県",
	"福岡県", "佐賀県", "長崎県", "熊本県", "大分県", "宮崎県", "鹿児島県",
	"沖縄県",
}

// tokyoPrefecture is the metropolitan prefecture whose special wards get
// the extra town-level refinement stage.
const tokyoPrefecture = "東京都"

// ResetPhrases are the fixed phrases meaning "drop the area filter and
// search nationwide". Matching is plain substring, no normalization.
var ResetPhrases = []string{
	"全国",
	"すべての地域",
	"全ての地域",
	"エリアを解除",
	"エリアをリセット",
	"地域を解除",
	"地域をリセット",
}

// ExclusionSuffixes are trailing conversational fragments that must never
// be absorbed into a town-name match. A candidate town fragment is cut at
// the earliest occurrence of any of these.
var ExclusionSuffixes = []string{
	"で絞って",
	"で絞る",
	"で探して",
	"を探して",
	"について",
	"に関して",
	"の情報",
	"の物件",
	"のデータ",
}

// unit suffix markers: city, ward, town, village.
var unitMarkers = []rune{'市', '区', '町', '村'}

func isUnitMarker(r rune) bool {
	for _, m := range unitMarkers {
		if r == m {
			return true
		}
	}
	return false
}
