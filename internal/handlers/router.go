package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/entity"
	"github.com/tidewatch/tidewatch/internal/registry"
	"github.com/tidewatch/tidewatch/internal/units"
)

// globalConfig loads the fee/approved-token singleton, creating it with
// zero defaults on first use.
func globalConfig(b entity.Bucket) (entity.GlobalConfig, error) {
	cfg, ok, err := entity.Load[entity.GlobalConfig](b, entity.GlobalConfigID)
	if err != nil {
		return cfg, err
	}
	if !ok {
		cfg = entity.GlobalConfig{ID: entity.GlobalConfigID, ApprovedTokens: []string{}}
	}
	return cfg, nil
}

// templates loads the template-registry singleton, creating it with empty
// lists on first use.
func templates(b entity.Bucket) (entity.TemplateRegistry, error) {
	reg, ok, err := entity.Load[entity.TemplateRegistry](b, entity.TemplateRegistryID)
	if err != nil {
		return reg, err
	}
	if !ok {
		reg = entity.TemplateRegistry{
			ID:                 entity.TemplateRegistryID,
			SSTemplates:        []string{},
			FixedRateTemplates: []string{},
			DispenserTemplates: []string{},
		}
	}
	return reg, nil
}

// tokenAdded refreshes all four fees from router views, then puts the token
// on the approved list. Any reverted view aborts the whole event: either
// every fee and the list update persist, or nothing does.
func (h *Set) tokenAdded(ctx context.Context, b entity.Bucket, ev chain.TokenAdded) error {
	cfg, err := globalConfig(b)
	if err != nil {
		return err
	}

	swapOcean, swapNonOcean, err := h.reader.OPCFees(ctx, ev.Address)
	if err != nil {
		return fmt.Errorf("token added: %w", err)
	}
	cfg.SwapOceanFee = units.ToDecimal(swapOcean, h.feeDecimals)
	cfg.SwapNonOceanFee = units.ToDecimal(swapNonOcean, h.feeDecimals)

	consumeFee, err := h.reader.OPCConsumeFee(ctx, ev.Address)
	if err != nil {
		return fmt.Errorf("token added: %w", err)
	}
	providerFee, err := h.reader.OPCProviderFee(ctx, ev.Address)
	if err != nil {
		return fmt.Errorf("token added: %w", err)
	}
	cfg.OrderFee = units.ToDecimal(consumeFee, h.feeDecimals)
	cfg.ProviderFee = units.ToDecimal(providerFee, h.feeDecimals)

	token, err := h.alloc.Token(ctx, b, ev.Token)
	if err != nil {
		return err
	}
	cfg.ApprovedTokens = registry.AddUnique(cfg.ApprovedTokens, token.ID)

	return entity.Save(b, cfg)
}

func (h *Set) tokenRemoved(b entity.Bucket, ev chain.TokenRemoved) error {
	cfg, err := globalConfig(b)
	if err != nil {
		return err
	}
	warnEmptyList(entity.KindGlobalConfig, "approvedTokens", cfg.ApprovedTokens, ev.EventMeta())
	cfg.ApprovedTokens = registry.RemoveAll(cfg.ApprovedTokens, entity.AddressID(ev.Token))
	return entity.Save(b, cfg)
}

// opcFeeChanged takes the four fees directly from the event parameters, no
// view calls involved.
func (h *Set) opcFeeChanged(b entity.Bucket, ev chain.OPCFeeChanged) error {
	cfg, err := globalConfig(b)
	if err != nil {
		return err
	}
	cfg.SwapOceanFee = units.ToDecimal(ev.SwapOceanFee, h.feeDecimals)
	cfg.SwapNonOceanFee = units.ToDecimal(ev.SwapNonOceanFee, h.feeDecimals)
	cfg.OrderFee = units.ToDecimal(ev.ConsumeFee, h.feeDecimals)
	cfg.ProviderFee = units.ToDecimal(ev.ProviderFee, h.feeDecimals)
	return entity.Save(b, cfg)
}

func (h *Set) ssContractAdded(b entity.Bucket, ev chain.SSContractAdded) error {
	reg, err := templates(b)
	if err != nil {
		return err
	}
	reg.SSTemplates = registry.AddUnique(reg.SSTemplates, entity.AddressID(ev.Contract))
	return entity.Save(b, reg)
}

func (h *Set) ssContractRemoved(b entity.Bucket, ev chain.SSContractRemoved) error {
	reg, err := templates(b)
	if err != nil {
		return err
	}
	warnEmptyList(entity.KindTemplateRegistry, "ssTemplates", reg.SSTemplates, ev.EventMeta())
	reg.SSTemplates = registry.RemoveAll(reg.SSTemplates, entity.AddressID(ev.Contract))
	return entity.Save(b, reg)
}

// fixedRateContractAdded registers the new contract instance with the event
// source before updating the registry: tracking affects future delivery,
// the list affects current state.
func (h *Set) fixedRateContractAdded(b entity.Bucket, ev chain.FixedRateContractAdded) error {
	h.tracker.Track(chain.SourceFixedRate, ev.Contract)

	reg, err := templates(b)
	if err != nil {
		return err
	}
	reg.FixedRateTemplates = registry.AddUnique(reg.FixedRateTemplates, entity.AddressID(ev.Contract))
	return entity.Save(b, reg)
}

func (h *Set) fixedRateContractRemoved(b entity.Bucket, ev chain.FixedRateContractRemoved) error {
	reg, err := templates(b)
	if err != nil {
		return err
	}
	warnEmptyList(entity.KindTemplateRegistry, "fixedRateTemplates", reg.FixedRateTemplates, ev.EventMeta())
	reg.FixedRateTemplates = registry.RemoveAll(reg.FixedRateTemplates, entity.AddressID(ev.Contract))
	return entity.Save(b, reg)
}

func (h *Set) dispenserContractAdded(b entity.Bucket, ev chain.DispenserContractAdded) error {
	h.tracker.Track(chain.SourceDispenser, ev.Contract)

	reg, err := templates(b)
	if err != nil {
		return err
	}
	reg.DispenserTemplates = registry.AddUnique(reg.DispenserTemplates, entity.AddressID(ev.Contract))
	return entity.Save(b, reg)
}

func (h *Set) dispenserContractRemoved(b entity.Bucket, ev chain.DispenserContractRemoved) error {
	reg, err := templates(b)
	if err != nil {
		return err
	}
	warnEmptyList(entity.KindTemplateRegistry, "dispenserTemplates", reg.DispenserTemplates, ev.EventMeta())
	reg.DispenserTemplates = registry.RemoveAll(reg.DispenserTemplates, entity.AddressID(ev.Contract))
	return entity.Save(b, reg)
}

// warnEmptyList reports an empty-string element in a stored list. The scan
// in registry.RemoveAll drops it; this only makes the violation visible.
func warnEmptyList(kind entity.Kind, field string, list []string, meta chain.Meta) {
	if registry.ContainsEmpty(list) {
		slog.Warn("registry list contains empty element",
			"kind", string(kind),
			"field", field,
			"block", meta.Block,
			"tx", entity.HashID(meta.TxHash),
		)
	}
}
