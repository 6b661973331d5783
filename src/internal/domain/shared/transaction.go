package shared

import "context"

// TransactionContext 事務上下文介面
//
// 行為約定（可選事務參與）：
// - tx != nil: 在調用者的事務中執行
// - tx == nil: auto-commit 模式（適用於單一讀操作）
//
// Repository 方法約束：
// - 寫操作（Add / Replace / UpdateBalance / CompareAndSetBalance / Delete）必須傳入 non-nil tx
// - 讀操作（FindCurrent / List）可傳 nil
//
// 範例：
//
//	txManager.InTransaction(ctx, func(tx TransactionContext) error {
//	    purchase, err := purchaseRepo.Add(ctx, tx, draft)
//	    if err != nil {
//	        return err
//	    }
//	    return settingsRepo.CompareAndSetBalance(ctx, tx, expected, version, next)
//	})
//
// 這是一個標記介面，具體事務封裝由 Infrastructure Layer（GORM）負責。
type TransactionContext interface {
	// 標記介面：僅用於傳遞上下文，不暴露方法
}

// TransactionManager 事務管理器介面
//
// fn 返回 error 或 panic 時回滾，否則提交。
// ctx 的截止時間套用到整個事務。
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(tx TransactionContext) error) error
}
