// Package selector выбирает путь из взвешенных кандидатов.
//
// Два режима:
//   - weighted random — статический выбор пропорционально весам;
//     используется пока адаптивный режим выключен или накоплено
//     меньше минимальной выборки
//   - adaptive — Thompson Sampling по Beta-распределению вероятности
//     успеха, с поправкой на среднюю задержку пути: и надёжность,
//     и скорость влияют на итоговый score
//
// Выбор переоценивается независимо для каждого запроса; общего
// мутабельного "текущего выбора" нет. Selector безопасен для
// конкурентного вызова из многих запросов.
//
// Selector никогда не фейлится: при недоступной статистике
// деградирует к weighted random.
package selector
