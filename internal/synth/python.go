package synth

import "math/bits"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// Python：MT19937 生成器，播种与整数抽样与 CPython random 模块逐位一致
// 约束：Seed 对应 random.seed(int)（按 32 位小端分段 init_by_array）；IntRange 对应 random.randint（getrandbits 拒绝采样）；非并发安全，每次调用方独占一个实例
type Python struct {
	mt  [mtN]uint32
	mti int
}

func NewPython(seed int64) *Python {
	p := &Python{}
	p.Seed(seed)
	return p
}

// Seed：负数取绝对值；0 视为单元素键 [0]
func (p *Python) Seed(seed int64) {
	var u uint64
	if seed < 0 {
		u = uint64(-(seed + 1)) + 1
	} else {
		u = uint64(seed)
	}
	key := []uint32{uint32(u)}
	if hi := uint32(u >> 32); hi != 0 {
		key = append(key, hi)
	}
	p.initByArray(key)
}

func (p *Python) initGenrand(s uint32) {
	p.mt[0] = s
	for i := 1; i < mtN; i++ {
		p.mt[i] = 1812433253*(p.mt[i-1]^(p.mt[i-1]>>30)) + uint32(i)
	}
	p.mti = mtN
}

func (p *Python) initByArray(key []uint32) {
	p.initGenrand(19650218)
	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		p.mt[i] = (p.mt[i] ^ ((p.mt[i-1] ^ (p.mt[i-1] >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			p.mt[0] = p.mt[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		p.mt[i] = (p.mt[i] ^ ((p.mt[i-1] ^ (p.mt[i-1] >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			p.mt[0] = p.mt[mtN-1]
			i = 1
		}
	}
	p.mt[0] = 0x80000000
}

func (p *Python) twist() {
	mag := [2]uint32{0, mtMatrixA}
	var kk int
	for kk = 0; kk < mtN-mtM; kk++ {
		y := (p.mt[kk] & mtUpperMask) | (p.mt[kk+1] & mtLowerMask)
		p.mt[kk] = p.mt[kk+mtM] ^ (y >> 1) ^ mag[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y := (p.mt[kk] & mtUpperMask) | (p.mt[kk+1] & mtLowerMask)
		p.mt[kk] = p.mt[kk+mtM-mtN] ^ (y >> 1) ^ mag[y&1]
	}
	y := (p.mt[mtN-1] & mtUpperMask) | (p.mt[0] & mtLowerMask)
	p.mt[mtN-1] = p.mt[mtM-1] ^ (y >> 1) ^ mag[y&1]
	p.mti = 0
}

// Uint32：一次 32 位原始输出（genrand_uint32）
func (p *Python) Uint32() uint32 {
	if p.mti >= mtN {
		p.twist()
	}
	y := p.mt[p.mti]
	p.mti++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// getrandbits：仅支持 1..32 位
func (p *Python) getrandbits(k int) uint32 {
	return p.Uint32() >> (32 - k)
}

// randbelow：[0,n) 拒绝采样，n 需满足 1 <= n < 2^32，更宽的区间直接 panic
func (p *Python) randbelow(n uint64) uint64 {
	k := bits.Len64(n)
	if k > 32 {
		panic("synth: range wider than 32 bits")
	}
	r := uint64(p.getrandbits(k))
	for r >= n {
		r = uint64(p.getrandbits(k))
	}
	return r
}

// IntRange：闭区间 [lo,hi] 均匀整数
func (p *Python) IntRange(lo, hi int) int {
	if hi < lo {
		panic("synth: empty range")
	}
	return lo + int(p.randbelow(uint64(hi-lo)+1))
}
