package horoscope

import "hash/fnv"

// seedSpread bounds the symbol component of a derived seed
const seedSpread = 10000

// SymbolHash is the 32-bit FNV-1a hash of a symbol
func SymbolHash(symbol string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum32()
}

// DeriveSeed returns the per-subject seed: seed + (fnv1a32(symbol) mod 10000)
// ⭐ SSOT: 심볼별 시드 유도는 여기서만
func DeriveSeed(symbol string, seed int64) int64 {
	return seed + int64(SymbolHash(symbol)%seedSpread)
}
