package validate

import (
	"fmt"
	"strings"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/domain"
)

// buyEquipment stages the purchase slots strictly in order: item, then
// color, then size, then brand. Stages that do not apply to the item are
// skipped. No identity is required to buy over the counter.
func (e *Engine) buyEquipment(req contractx.ValidationRequest) contractx.ValidationResult {
	raw, ok := req.Slots["item"]
	if !ok || strings.TrimSpace(raw) == "" {
		return missingResult("item", domain.Items()...)
	}
	name, ok := domain.ResolveKey(raw, domain.Items())
	if !ok {
		return notValidResult("item",
			fmt.Sprintf("we do not sell %q", raw), domain.Items())
	}
	item, _ := domain.Item(name)

	normalized := map[string]string{"item": name}

	if len(item.Colors) > 0 {
		rawColor, ok := req.Slots["color"]
		if !ok || strings.TrimSpace(rawColor) == "" {
			return missingResult("color", item.Colors...)
		}
		color, ok := domain.ResolveKey(rawColor, item.Colors)
		if !ok {
			return notValidResult("color",
				fmt.Sprintf("%s are not available in %q", name, rawColor), item.Colors)
		}
		normalized["color"] = color
	}

	if len(item.Sizes) > 0 {
		rawSize, ok := req.Slots["size"]
		if !ok || strings.TrimSpace(rawSize) == "" {
			return missingResult("size", item.Sizes...)
		}
		size := strings.ToUpper(strings.TrimSpace(rawSize))
		if !containsFold(item.Sizes, size) {
			return notValidResult("size",
				fmt.Sprintf("%s come in %s", name, strings.Join(item.Sizes, ", ")), item.Sizes)
		}
		normalized["size"] = size
	}

	rawBrand, ok := req.Slots["brand"]
	if !ok || strings.TrimSpace(rawBrand) == "" {
		return missingResult("brand", item.Brand)
	}
	if !strings.EqualFold(strings.TrimSpace(rawBrand), item.Brand) {
		return notValidResult("brand",
			fmt.Sprintf("we only stock %s by %s", name, item.Brand), []string{item.Brand})
	}
	normalized["brand"] = item.Brand

	var variant []string
	if c := normalized["color"]; c != "" {
		variant = append(variant, c)
	}
	if s := normalized["size"]; s != "" {
		variant = append(variant, "size "+s)
	}
	detail := ""
	if len(variant) > 0 {
		detail = " (" + strings.Join(variant, ", ") + ")"
	}
	summary := fmt.Sprintf("%s by %s%s, €%.2f", name, item.Brand, detail, item.Price)

	if !req.Commit {
		return completeResult(summary, normalized, true)
	}
	return completeResult("purchase registered: "+summary, normalized, false)
}
