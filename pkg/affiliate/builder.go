package affiliate

import (
	"net/url"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
)

// Options — необязательные параметры ссылки.
type Options struct {
	CampaignID string
	SubID      string
}

// Builder строит партнёрские ссылки вида {base}/affiliate/{userId}/{productId}?campaign=..&sub_id=..
// Построение чистое: без сетевых вызовов и состояния.
type Builder struct {
	baseURL string
}

func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// Build строит ссылку. Пустая кампания заменяется на "default", sub_id присутствует всегда.
func (b *Builder) Build(userID, productID string, opts Options) domain.AffiliateLink {
	campaign := strings.TrimSpace(opts.CampaignID)
	if campaign == "" {
		campaign = domain.DefaultCampaign
	}

	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteString("/affiliate/")
	sb.WriteString(url.PathEscape(userID))
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(productID))
	sb.WriteString("?campaign=")
	sb.WriteString(url.QueryEscape(campaign))
	sb.WriteString("&sub_id=")
	sb.WriteString(url.QueryEscape(opts.SubID))

	return domain.AffiliateLink{
		UserID:     userID,
		ProductID:  productID,
		CampaignID: campaign,
		SubID:      opts.SubID,
		URL:        sb.String(),
	}
}
