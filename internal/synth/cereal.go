package synth

// Cereal：谷物类型的封闭枚举；零值为 Unknown
type Cereal uint8

const (
	CerealUnknown Cereal = iota
	CerealBD             // 硬粒小麦 blé dur
	CerealBT             // 软质小麦 blé tendre
	CerealTr             // 黑小麦 triticale
	CerealOr             // 大麦 orge
)

// CerealFromCode：1..4 依次映射 BD/BT/Tr/Or，其余一律 Unknown
func CerealFromCode(code int) Cereal {
	switch code {
	case 1:
		return CerealBD
	case 2:
		return CerealBT
	case 3:
		return CerealTr
	case 4:
		return CerealOr
	default:
		return CerealUnknown
	}
}

func (c Cereal) String() string {
	switch c {
	case CerealBD:
		return "BD"
	case CerealBT:
		return "BT"
	case CerealTr:
		return "Tr"
	case CerealOr:
		return "Or"
	default:
		return "Unknown"
	}
}

func (c Cereal) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Label：code 到文本标签的纯函数
func Label(code int) string { return CerealFromCode(code).String() }
