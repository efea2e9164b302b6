package peer

import (
	"bytes"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-peerid/pkg/lib/crypto"
)

// ============================================================================
//                              指纹缓存
// ============================================================================

// CachingKeyService 缓存公钥指纹的密钥服务
//
// 以公钥序列化形式为键缓存 HashPublicKey 的结果，其余方法直接转发。
// 同一个远端公钥被反复解析时只哈希一次。
type CachingKeyService struct {
	KeyService
	cache *lru.Cache[string, []byte]
}

var _ KeyService = (*CachingKeyService)(nil)

// NewCachingKeyService 包装 inner，最多缓存 size 个指纹
func NewCachingKeyService(inner KeyService, size int) (*CachingKeyService, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachingKeyService{KeyService: inner, cache: cache}, nil
}

// HashPublicKey 计算公钥指纹，命中缓存时不再哈希
func (s *CachingKeyService) HashPublicKey(pub crypto.PublicKey) ([]byte, error) {
	data, err := s.KeyService.MarshalPublicKey(pub)
	if err != nil {
		return nil, err
	}
	if fp, ok := s.cache.Get(string(data)); ok {
		return bytes.Clone(fp), nil
	}

	fp, err := s.KeyService.HashPublicKey(pub)
	if err != nil {
		return nil, err
	}
	s.cache.Add(string(data), bytes.Clone(fp))
	return fp, nil
}

// Len 返回缓存中的指纹数
func (s *CachingKeyService) Len() int {
	return s.cache.Len()
}

// Purge 清空缓存
func (s *CachingKeyService) Purge() {
	s.cache.Purge()
}
