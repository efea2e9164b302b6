package peer

import (
	"context"

	"go.uber.org/multierr"
)

// IsValid 重新校验 ID 的一致性
//
// 有私钥时：派生公钥，与已存公钥比较，并用派生公钥校验指纹；
// 只有公钥时：用公钥校验指纹。Set*Bytes 延迟的解析错误也在这里报告。
// 所有问题合并为一个错误返回，可用 multierr.Errors 拆开。
func (id *ID) IsValid(ctx context.Context) error {
	_, err := run(ctx, func() (struct{}, error) {
		return struct{}{}, id.validate()
	})
	return err
}

func (id *ID) validate() error {
	if id == nil || len(id.fp) == 0 {
		return ErrInvalidFingerprint
	}
	f := id.fac()
	s := id.slot()

	var errs error
	if _, err := f.codec.Cast(id.fp); err != nil {
		errs = multierr.Append(errs, wrapErr(ErrInvalidFingerprint, err))
	}
	errs = multierr.Append(errs, s.privErr)
	errs = multierr.Append(errs, s.pubErr)

	switch {
	case s.priv != nil:
		derived, err := f.keys.DerivePublicKey(s.priv)
		if err != nil {
			errs = multierr.Append(errs, wrapErr(ErrInvalidPrivateKey, err))
			break
		}
		if s.pub != nil && !s.pubDerived {
			errs = multierr.Append(errs, f.samePublicKey(derived, s.pub))
		}
		errs = multierr.Append(errs, f.matchFingerprint(id.fp, derived))

	case s.pub != nil:
		errs = multierr.Append(errs, f.matchFingerprint(id.fp, s.pub))
	}

	if errs != nil {
		f.warn("peer id validation failed", "peer", id.ShortString(), "err", errs)
	}
	return errs
}
